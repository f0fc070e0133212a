package download

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"advisory-backend/internal/shared/storage/object"
	"advisory-backend/internal/shared/util"
)

// StagedPrefix is the object-store namespace for staged copies.
const StagedPrefix = "staged"

// ObjectStager stages copies in an object store under
// staged/<owner hash>/<random token>/<file name>.
type ObjectStager struct {
	Store object.ObjectStore
	// URLBase is the route that serves staged copies, e.g. /api/v1/staged-exports.
	URLBase string
}

func (s ObjectStager) Stage(ctx context.Context, f File) (Staged, error) {
	name, err := util.SafeFileName(f.Name)
	if err != nil {
		return Staged{}, err
	}
	owner := util.OwnerKey(f.Owner)
	token := uuid.NewString()
	key := stagedKey(owner, token, name)

	if _, err := s.Store.SaveWithKey(ctx, key, f.ContentType, bytes.NewReader(f.Data)); err != nil {
		return Staged{}, fmt.Errorf("stage %s: %w", name, err)
	}
	return Staged{
		Key: key,
		URL: strings.TrimRight(s.URLBase, "/") + "/" + owner + "/" + token + "/" + url.PathEscape(name),
	}, nil
}

func (s ObjectStager) Revoke(ctx context.Context, staged Staged) error {
	if staged.Key == "" {
		return nil
	}
	return s.Store.Delete(ctx, staged.Key)
}

func stagedKey(owner, token, name string) string {
	return path.Join(StagedPrefix, owner, token, name)
}
