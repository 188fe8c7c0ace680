package announce

// Excerpt exposes the attachment-description builder for testing purposes
var Excerpt = excerpt
