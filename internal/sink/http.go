package sink

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/RoGogDBD/qdb-cloudwatch/internal/config"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/crypto"
	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/RoGogDBD/qdb-cloudwatch/pkg/pool"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Заголовки HTTP-получателя.
const (
	HeaderHash      = "HashSHA256"
	HeaderEncrypted = "X-Encrypted"
	updatesPath     = "/updates/"
)

// Payload — тело запроса HTTP-получателя.
type Payload struct {
	Namespace string          `json:"namespace"`
	Metrics   []models.Record `json:"metrics"`
}

type payloadBuffer struct {
	raw bytes.Buffer
	gz  bytes.Buffer
}

func (b *payloadBuffer) Reset() {
	b.raw.Reset()
	b.gz.Reset()
}

// HTTPOptions — параметры HTTP-получателя.
//
// Поля:
//   - Endpoint: базовый URL сервера метрик
//   - Key: ключ HMAC-SHA256 для заголовка HashSHA256 (опционально)
//   - PublicKey: публичный RSA ключ для шифрования тела (опционально)
//   - Timeout: таймаут одного запроса
//   - RetryCount: число повторов resty при сетевых ошибках
type HTTPOptions struct {
	Endpoint   string
	Key        string
	PublicKey  *rsa.PublicKey
	Timeout    time.Duration
	RetryCount int
}

// HTTP отправляет пакеты POST-запросом {endpoint}/updates/ в виде сжатого JSON.
type HTTP struct {
	client    *resty.Client
	key       string
	publicKey *rsa.PublicKey
	buffers   *pool.Pool[*payloadBuffer]
}

// NewHTTP создаёт HTTP-получателя.
func NewHTTP(opts HTTPOptions, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.Endpoint).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond)
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP request",
			zap.String("method", resp.Request.Method),
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Int64("size", resp.Size()),
			zap.Duration("duration", resp.Time()),
		)
		return nil
	})

	return &HTTP{
		client:    client,
		key:       opts.Key,
		publicKey: opts.PublicKey,
		buffers:   pool.New(func() *payloadBuffer { return &payloadBuffer{} }),
	}
}

// Submit отправляет записи одним запросом.
func (h *HTTP) Submit(ctx context.Context, namespace string, records []models.Record) error {
	if len(records) > MaxRecords {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(records), MaxRecords)
	}

	buf := h.buffers.Get()
	defer h.buffers.Put(buf)

	if err := json.NewEncoder(&buf.raw).Encode(Payload{Namespace: namespace, Metrics: records}); err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	if err := config.GzipCompressTo(&buf.gz, buf.raw.Bytes()); err != nil {
		return fmt.Errorf("failed to write gzip: %w", err)
	}

	body := buf.gz.Bytes()
	contentType := "application/json"
	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Encoding", "gzip")

	if h.publicKey != nil {
		enc, err := crypto.EncryptData(body, h.publicKey)
		if err != nil {
			return err
		}
		body = enc
		contentType = "application/octet-stream"
		req.SetHeader(HeaderEncrypted, "rsa")
	}
	if h.key != "" {
		req.SetHeader(HeaderHash, computeHash(body, h.key))
	}

	resp, err := req.
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Post(updatesPath)
	if err != nil {
		return fmt.Errorf("failed to POST metrics batch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode())
	}
	return nil
}

func computeHash(data []byte, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
