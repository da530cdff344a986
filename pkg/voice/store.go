package voice

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harunnryd/shivaay/pkg/tts"
)

// Artifact is a stored voice reply.
type Artifact struct {
	Path        string `json:"-"`
	URL         string `json:"url"`
	Locale      string `json:"locale"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Bytes       int    `json:"bytes"`
	Provider    string `json:"provider"`
}

// Store persists synthesized audio and tells the client where to fetch it.
type Store interface {
	Save(ctx context.Context, audio tts.Audio) (Artifact, error)
}

// FileStore writes clips under Dir and serves them below PublicPrefix.
type FileStore struct {
	Dir          string
	PublicPrefix string
	now          func() time.Time
}

func NewFileStore(dir, publicPrefix string) (*FileStore, error) {
	if dir == "" {
		dir = "static"
	}
	if publicPrefix == "" {
		publicPrefix = "static"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &FileStore{Dir: dir, PublicPrefix: strings.TrimRight(publicPrefix, "/"), now: time.Now}, nil
}

// Save writes voice_reply_<unixnano>_<uuid>.<ext>. The uuid keeps names
// unique across concurrent turns in the same nanosecond.
func (s *FileStore) Save(ctx context.Context, audio tts.Audio) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if len(audio.Data) == 0 {
		return Artifact{}, fmt.Errorf("empty audio")
	}
	name := fmt.Sprintf("voice_reply_%d_%s.%s", s.now().UnixNano(), uuid.NewString(), audio.Extension())
	full := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Artifact{}, err
	}
	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		_ = os.Remove(full)
		return Artifact{}, err
	}
	if err := f.Close(); err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Path:        full,
		URL:         publicURL(s.PublicPrefix, name),
		Locale:      audio.Language,
		Format:      audio.Extension(),
		ContentType: audio.ContentType,
		Bytes:       len(audio.Data),
		Provider:    audio.Provider,
	}, nil
}

// publicURL joins name onto prefix. A prefix with a scheme, such as a CDN
// base, is joined as a URL so its "//" survives; anything else is a path.
func publicURL(prefix, name string) string {
	if u, err := url.Parse(prefix); err == nil && u.Scheme != "" && u.Host != "" {
		if joined, err := url.JoinPath(prefix, name); err == nil {
			return joined
		}
	}
	return path.Join(prefix, name)
}

var _ Store = (*FileStore)(nil)
