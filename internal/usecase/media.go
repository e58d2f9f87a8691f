package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"slices"
	"strings"

	"github.com/GoArmGo/TastyTrail/internal/core/ports"
	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/google/uuid"
)

// MediaUpload — сырой файл из запроса
type MediaUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// MediaAttachment — результат приёма медиа
type MediaAttachment struct {
	Type string // image | video
	Data string // base64
	URL  string // адрес в объектном хранилище, если оно настроено
	Key  string // ключ объекта; пуст, если загрузки не было
}

// MediaIngestor проверяет тип медиа, кодирует его в base64
// и при наличии FileStorage дублирует файл в объектное хранилище.
type MediaIngestor struct {
	files  ports.FileStorage
	logger *slog.Logger
}

// NewMediaIngestor создаёт приёмщик медиа; files может быть nil.
func NewMediaIngestor(files ports.FileStorage, logger *slog.Logger) *MediaIngestor {
	return &MediaIngestor{files: files, logger: logger}
}

// MediaKind определяет тип медиа по префиксу content-type.
func MediaKind(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return domain.MediaTypeImage, true
	case strings.HasPrefix(ct, "video/"):
		return domain.MediaTypeVideo, true
	default:
		return "", false
	}
}

// Ingest принимает файл. allowed перечисляет допустимые типы (image, video).
func (m *MediaIngestor) Ingest(ctx context.Context, keyPrefix string, upload MediaUpload, allowed ...string) (MediaAttachment, error) {
	kind, ok := MediaKind(upload.ContentType)
	if !ok || !slices.Contains(allowed, kind) {
		return MediaAttachment{}, fmt.Errorf("%q: %w", upload.ContentType, domain.ErrUnsupportedMedia)
	}

	att := MediaAttachment{
		Type: kind,
		Data: base64.StdEncoding.EncodeToString(upload.Content),
	}

	if m.files != nil {
		key := fmt.Sprintf("%s/%s%s", keyPrefix, uuid.NewString(), extensionFor(upload))
		url, err := m.files.UploadFile(ctx, key, bytes.NewReader(upload.Content), upload.ContentType)
		if err != nil {
			// base64 в документе остаётся основным представлением
			m.logger.Warn("media upload to object storage failed", "key", key, "error", err)
		} else {
			att.URL = url
			att.Key = key
		}
	}
	return att, nil
}

// Discard удаляет загруженные объекты, когда запись, к которой они относились, не сохранилась.
func (m *MediaIngestor) Discard(ctx context.Context, attachments ...MediaAttachment) {
	if m.files == nil {
		return
	}
	for _, att := range attachments {
		if att.Key == "" {
			continue
		}
		if err := m.files.DeleteFile(ctx, att.Key); err != nil {
			m.logger.Warn("failed to delete orphaned media", "key", att.Key, "error", err)
		}
	}
}

func extensionFor(upload MediaUpload) string {
	if i := strings.LastIndex(upload.Filename, "."); i >= 0 && i < len(upload.Filename)-1 {
		return strings.ToLower(upload.Filename[i:])
	}
	if exts, err := mime.ExtensionsByType(upload.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
