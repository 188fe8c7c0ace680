package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
)

// AddInviteRequest carries the inputs of the invite-add operation. Handle is
// optional; when present, the invitee must already exist on the chat
// platform.
type AddInviteRequest struct {
	Email  string
	Role   types.UserRole
	Handle string
}

// BrowseInvites lists pending and sent invites
func (uc *UseCases) BrowseInvites(ctx context.Context, f *pipeline.Frame) ([]*model.Invite, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}

	invites, err := uc.repo.Invite().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list invites")
	}

	return invites, nil
}

// ReadInvite returns one invite
func (uc *UseCases) ReadInvite(ctx context.Context, f *pipeline.Frame, id types.InviteID) (*model.Invite, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}

	invite, err := uc.repo.Invite().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, types.AsNotFound("invite not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get invite", goerr.V("id", id))
	}

	return invite, nil
}

// checkInvitePermission enforces who may grant which role: owners and
// admins may invite anyone below owner, editors may only invite authors.
func checkInvitePermission(caller *model.User, target types.UserRole) error {
	if target == types.RoleOwner {
		return types.AsValidation("the owner role cannot be granted by invite")
	}

	switch caller.Role {
	case types.RoleOwner, types.RoleAdmin:
		return nil
	case types.RoleEditor:
		if target == types.RoleAuthor {
			return nil
		}
		return types.AsNoPermission("editors may only invite authors")
	default:
		return types.AsNoPermission("not allowed to invite users")
	}
}

// AddInvite creates (or recreates) an invitation and dispatches the invite
// mail. An existing invite for the address is destroyed first so at most one
// invite per address exists. A mail failure leaves the invite pending and
// surfaces the error.
func (uc *UseCases) AddInvite(ctx context.Context, f *pipeline.Frame, req *AddInviteRequest) (*model.Invite, error) {
	tasks := []pipeline.Task{
		pipeline.Guard("check-session", func(ctx context.Context, f *pipeline.Frame) error {
			if !f.Authenticated() {
				return types.AsUnauthorized("no session")
			}
			return checkInvitePermission(f.User, req.Role)
		}),
		pipeline.Guard("validate-input", func(ctx context.Context, f *pipeline.Frame) error {
			if req.Email == "" || !strings.Contains(req.Email, "@") {
				return types.AsValidation("a valid email address is required")
			}
			if !req.Role.IsValid() {
				return types.AsValidation("invalid role", goerr.V("role", req.Role))
			}
			return nil
		}),
		pipeline.Guard("check-not-member", func(ctx context.Context, f *pipeline.Frame) error {
			_, err := uc.repo.User().GetByEmail(ctx, req.Email)
			if err == nil {
				return types.AsValidation("a user with this email already exists",
					goerr.V("email", req.Email))
			}
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil
			}
			return goerr.Wrap(err, "failed to check existing user")
		}),
		pipeline.Guard("check-platform-user", func(ctx context.Context, f *pipeline.Frame) error {
			if req.Handle == "" {
				return nil
			}
			ref, err := uc.chat.ResolveUserByHandle(ctx, f.Credential, req.Handle)
			if err != nil {
				return goerr.Wrap(err, "failed to look up platform user",
					goerr.T(types.ErrTagUnauthorized))
			}
			if !ref.Exists {
				return types.AsNotFound("no platform user with this handle",
					goerr.V("handle", req.Handle))
			}
			return nil
		}),
		pipeline.NewTask("destroy-existing", func(ctx context.Context, _ any, f *pipeline.Frame) (any, error) {
			existing, err := uc.repo.Invite().GetByEmail(ctx, req.Email)
			if err != nil {
				if errors.Is(err, interfaces.ErrNotFound) {
					return nil, nil
				}
				return nil, goerr.Wrap(err, "failed to check existing invite")
			}
			if err := uc.repo.Invite().Delete(ctx, existing.ID); err != nil {
				return nil, goerr.Wrap(err, "failed to destroy existing invite")
			}
			return nil, nil
		}),
		pipeline.NewTask("create-invite", func(ctx context.Context, _ any, f *pipeline.Frame) (any, error) {
			return uc.createInvite(ctx, req)
		}),
		pipeline.NewTask("send-mail", func(ctx context.Context, value any, f *pipeline.Frame) (any, error) {
			invite := value.(*model.Invite)
			if err := uc.sendInviteMail(ctx, invite); err != nil {
				return nil, err
			}
			invite.Status = types.InviteStatusSent
			if err := uc.repo.Invite().Put(ctx, invite); err != nil {
				return nil, goerr.Wrap(err, "failed to mark invite sent")
			}
			return invite, nil
		}),
	}

	result, err := pipeline.Run(ctx, tasks, nil, f)
	if err != nil {
		return nil, err
	}

	return result.(*model.Invite), nil
}

func (uc *UseCases) createInvite(ctx context.Context, req *AddInviteRequest) (*model.Invite, error) {
	expiresAt := uc.now().Add(uc.inviteTTL)

	token, err := uc.signInviteToken(req.Email, req.Role, expiresAt)
	if err != nil {
		return nil, err
	}

	invite := model.NewInvite(req.Email, req.Role, token, expiresAt)
	if err := uc.repo.Invite().Put(ctx, invite); err != nil {
		return nil, goerr.Wrap(err, "failed to store invite")
	}

	return invite, nil
}

func (uc *UseCases) signInviteToken(email string, role types.UserRole, expiresAt time.Time) (string, error) {
	if len(uc.inviteKey) == 0 {
		return "", goerr.New("invite signing key is not configured")
	}

	tok, err := jwt.NewBuilder().
		Subject(email).
		Claim("role", role.String()).
		IssuedAt(uc.now()).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build invite token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.inviteKey))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign invite token")
	}

	return string(signed), nil
}

func (uc *UseCases) sendInviteMail(ctx context.Context, invite *model.Invite) error {
	if uc.mailGen == nil || uc.mailSender == nil {
		return goerr.New("mail is not configured")
	}

	snapshot := uc.settings.Current()
	content, err := uc.mailGen.GenerateContent(ctx, "invite", map[string]any{
		"SiteTitle": snapshot.Title,
		"Role":      invite.Role.String(),
		"InviteURL": uc.siteURL + "/invites/accept?token=" + invite.Token,
		"ExpiresAt": invite.ExpiresAt.Format(time.RFC1123),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to generate invite mail")
	}

	msg := &interfaces.MailMessage{
		To:      invite.Email,
		Subject: "You have been invited to " + snapshot.Title,
		HTML:    content.HTML,
		Text:    content.Text,
	}
	if err := uc.mailSender.Send(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to send invite mail", goerr.V("email", invite.Email))
	}

	return nil
}

// DeleteInvite withdraws an invitation
func (uc *UseCases) DeleteInvite(ctx context.Context, f *pipeline.Frame, id types.InviteID) error {
	if !f.Authenticated() {
		return types.AsUnauthorized("no session")
	}

	if err := uc.repo.Invite().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return types.AsNotFound("invite not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to delete invite", goerr.V("id", id))
	}

	return nil
}

// AcceptInvite redeems an invite token. The accepting caller presents their
// own platform credential; the invite's role is granted to the local user
// created from the confirmed identity.
func (uc *UseCases) AcceptInvite(ctx context.Context, f *pipeline.Frame, rawToken string) (*model.User, error) {
	if len(uc.inviteKey) == 0 {
		return nil, goerr.New("invite signing key is not configured")
	}

	tok, err := jwt.Parse([]byte(rawToken),
		jwt.WithKey(jwa.HS256, uc.inviteKey),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(uc.now)),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "invite token rejected", goerr.T(types.ErrTagUnauthorized))
	}

	email := tok.Subject()
	invite, err := uc.repo.Invite().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, types.AsNotFound("invite not found", goerr.V("email", email))
		}
		return nil, goerr.Wrap(err, "failed to get invite", goerr.V("email", email))
	}
	if invite.Expired(uc.now()) {
		return nil, types.AsUnauthorized("invite has expired", goerr.V("email", email))
	}

	if f.Credential == nil {
		return nil, types.AsUnauthorized("credential pair is required")
	}
	identity, err := uc.chat.ResolveIdentity(ctx, f.Credential)
	if err != nil {
		return nil, goerr.Wrap(err, "identity confirmation failed", goerr.T(types.ErrTagUnauthorized))
	}
	if !identity.Success {
		return nil, types.AsUnauthorized("credential pair rejected by the chat platform")
	}

	user := model.NewUser(identity.ID, identity.Handle, identity.Name, email, invite.Role)
	user.AvatarURL = identity.AvatarURL(uc.settings.Current().ServerURL)

	if err := uc.repo.User().Put(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to create user from invite")
	}
	if err := uc.repo.Invite().Delete(ctx, invite.ID); err != nil {
		return nil, goerr.Wrap(err, "failed to consume invite", goerr.V("id", invite.ID))
	}

	f.Member = identity
	f.AttachUser(user)
	return user, nil
}
