package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
)

// BrowseSettings lists the configuration. Core settings carry shared
// secrets and are stripped for non-internal callers.
func (uc *UseCases) BrowseSettings(ctx context.Context, f *pipeline.Frame) ([]model.Setting, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}

	all := uc.settings.Current().List()
	if f.Context.Internal {
		return all, nil
	}

	visible := make([]model.Setting, 0, len(all))
	for _, s := range all {
		if s.Core {
			continue
		}
		visible = append(visible, s)
	}
	return visible, nil
}

// ReadSetting returns one setting by key
func (uc *UseCases) ReadSetting(ctx context.Context, f *pipeline.Frame, key string) (*model.Setting, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}

	setting, ok := uc.settings.Current().Get(key)
	if !ok {
		return nil, types.AsNotFound("unknown setting", goerr.V("key", key))
	}
	if setting.Core && !f.Context.Internal {
		return nil, types.AsNoPermission("core settings are internal", goerr.V("key", key))
	}

	return &setting, nil
}

func checkSettingsPermission(user *model.User) error {
	switch user.Role {
	case types.RoleOwner, types.RoleAdmin:
		return nil
	default:
		return types.AsNoPermission("only owners and admins may change settings")
	}
}

// EditSetting updates one key. Setting the announce room resolves the room
// through the transport first and stores its platform ID alongside the name;
// an unresolvable room rejects the edit.
func (uc *UseCases) EditSetting(ctx context.Context, f *pipeline.Frame, key, value string) (*model.Setting, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}
	if err := checkSettingsPermission(f.User); err != nil {
		return nil, err
	}
	if model.IsCoreKey(key) && !f.Context.Internal {
		return nil, types.AsNoPermission("core settings are internal", goerr.V("key", key))
	}

	if key == model.SettingRoom && value != "" {
		ref, err := uc.GetRoom(ctx, f, chat.RoomQuery{Name: value})
		if err != nil {
			return nil, err
		}
		if !ref.Exists {
			return nil, types.AsNotFound("room not found on the chat platform", goerr.V("room", value))
		}
		if _, err := uc.settings.Update(ctx, model.SettingRoomID, ref.ID.String()); err != nil {
			return nil, err
		}
	}

	snapshot, err := uc.settings.Update(ctx, key, value)
	if err != nil {
		return nil, err
	}

	setting, ok := snapshot.Get(key)
	if !ok {
		return nil, types.AsNotFound("unknown setting", goerr.V("key", key))
	}
	return &setting, nil
}

// UploadRoutes installs an uploaded route-configuration artifact
func (uc *UseCases) UploadRoutes(ctx context.Context, f *pipeline.Frame, artifact []byte) error {
	if uc.routes == nil {
		return goerr.New("routes manager is not configured", goerr.T(types.ErrTagInternal))
	}
	if !f.Authenticated() {
		return types.AsUnauthorized("no session")
	}
	if err := checkSettingsPermission(f.User); err != nil {
		return err
	}
	if len(artifact) == 0 {
		return types.AsValidation("routes artifact is empty")
	}

	return uc.routes.Install(ctx, artifact)
}

// DownloadRoutes returns the active route-configuration artifact
func (uc *UseCases) DownloadRoutes(ctx context.Context, f *pipeline.Frame) ([]byte, error) {
	if uc.routes == nil {
		return nil, goerr.New("routes manager is not configured", goerr.T(types.ErrTagInternal))
	}
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}

	return uc.routes.Active()
}
