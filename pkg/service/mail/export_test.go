package mail

// BuildMessage exposes the SMTP message assembly for testing purposes
var BuildMessage = buildMessage
