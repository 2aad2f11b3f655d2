package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

const localDir = "storage/products"

// CloudinaryStore sube y borra imágenes de producto contra la API REST de
// Cloudinary (upload firmado). Si no hay credenciales, o la subida remota
// falla, degrada a almacenamiento local bajo storage/products/: la operación
// de catálogo nunca se cae por el media store.
type CloudinaryStore struct {
	cfg    config.CloudinaryConfig
	client *http.Client
	log    *logger.Logger
}

// NewCloudinaryStore construye el store. client nil usa uno con timeout de 30s.
func NewCloudinaryStore(cfg config.CloudinaryConfig, log *logger.Logger, client *http.Client) *CloudinaryStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &CloudinaryStore{cfg: cfg, client: client, log: log}
}

// Upload sube la imagen y devuelve la URL pública (secure_url de Cloudinary,
// o la ruta local degradada).
func (s *CloudinaryStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if !s.cfg.Enabled() {
		return s.uploadLocal(data, filename)
	}
	url, err := s.uploadRemote(ctx, data, filename)
	if err != nil {
		s.log.Warn().Err(err).Str("filename", filename).Msg("subida a cloudinary falló, degradando a almacenamiento local")
		return s.uploadLocal(data, filename)
	}
	return url, nil
}

func (s *CloudinaryStore) uploadRemote(ctx context.Context, data []byte, filename string) (string, error) {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	// Firma sobre los parámetros ordenados alfabéticamente + api_secret.
	signature := sha1Hex("folder=" + s.cfg.Folder + "&timestamp=" + timestamp + s.cfg.APISecret)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("api_key", s.cfg.APIKey)
	_ = w.WriteField("timestamp", timestamp)
	_ = w.WriteField("folder", s.cfg.Folder)
	_ = w.WriteField("signature", signature)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("crear form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("escribir form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("cerrar multipart: %w", err)
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMediaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: cloudinary status %d: %s", domain.ErrMediaUnavailable, resp.StatusCode, raw)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decodificar respuesta: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: respuesta sin secure_url", domain.ErrMediaUnavailable)
	}
	return result.SecureURL, nil
}

func (s *CloudinaryStore) uploadLocal(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return "", fmt.Errorf("crear dir local: %w", err)
	}
	name := uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(localDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("guardar imagen local: %w", err)
	}
	return path, nil
}

// Delete borra la imagen referida por url. Para URLs de Cloudinary extrae el
// public_id y llama a destroy; para rutas locales borra el archivo. Los fallos
// se loguean y no se propagan: un borrado huérfano no rompe la operación.
func (s *CloudinaryStore) Delete(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		return nil
	}
	if !strings.Contains(rawURL, "cloudinary.com") {
		if err := os.Remove(rawURL); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", rawURL).Msg("no se pudo borrar imagen local")
		}
		return nil
	}
	if !s.cfg.Enabled() {
		return nil
	}

	publicID := PublicIDFromURL(rawURL)
	if publicID == "" {
		return nil
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature := sha1Hex("public_id=" + publicID + "&timestamp=" + timestamp + s.cfg.APISecret)

	form := fmt.Sprintf("api_key=%s&public_id=%s&signature=%s&timestamp=%s",
		s.cfg.APIKey, publicID, signature, timestamp)
	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/destroy", s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form))
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("public_id", publicID).Msg("destroy en cloudinary falló")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode).Str("public_id", publicID).Msg("destroy en cloudinary rechazado")
	}
	return nil
}

// PublicIDFromURL extrae el public_id de una URL de entrega de Cloudinary:
// la parte del path posterior a "/upload/", sin el prefijo de versión
// ("v1234567890/") ni la extensión.
//
//	https://res.cloudinary.com/demo/image/upload/v1570979139/products/abc.jpg -> products/abc
func PublicIDFromURL(rawURL string) string {
	_, after, found := strings.Cut(rawURL, "/upload/")
	if !found {
		return ""
	}
	// Quitar prefijo de versión v<dígitos>/
	if len(after) > 1 && after[0] == 'v' {
		if rest, ok := trimVersionPrefix(after); ok {
			after = rest
		}
	}
	if idx := strings.LastIndex(after, "."); idx > 0 {
		after = after[:idx]
	}
	return after
}

func trimVersionPrefix(s string) (string, bool) {
	slash := strings.Index(s, "/")
	if slash <= 1 {
		return s, false
	}
	for _, c := range s[1:slash] {
		if c < '0' || c > '9' {
			return s, false
		}
	}
	return s[slash+1:], true
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
