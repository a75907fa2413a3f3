package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/dmitrijs2005/genio/internal/netx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const webhookTokenTTL = 5 * time.Minute

// WebhookGateway drives a workflow-automation backend that owns the Drive
// credentials:
//
//	POST   {base}/empreendimento        {"action":"create","nome","descricao"}
//	POST   {base}/upload/{folderId}     multipart, field "file" -> {"driveId"}
//	DELETE {base}/file/{fileId}
//	DELETE {base}/empreendimento/{folderId}
type WebhookGateway struct {
	base   string
	client *netx.Client
	secret []byte
	now    func() time.Time
	log    logging.Logger
}

// NewWebhook builds a gateway for the given base URL. When secret is set
// every request carries a short-lived HS256 bearer token.
func NewWebhook(base string, hc *http.Client, secret string, log logging.Logger) *WebhookGateway {
	g := &WebhookGateway{
		base:   strings.TrimRight(base, "/"),
		client: netx.NewClient(hc),
		now:    time.Now,
		log:    log.With("component", "gateway", "backend", "webhook"),
	}
	g.client.UserAgent = "genio"
	if secret != "" {
		g.secret = []byte(secret)
		g.client.Decorate = g.authorize
	}
	return g
}

type createFolderRequest struct {
	Action    string `json:"action"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

type createFolderResponse struct {
	ID            string `json:"id"`
	Nome          string `json:"nome"`
	Descricao     string `json:"descricao"`
	DriveFolderID string `json:"driveFolderId"`
}

type uploadResponse struct {
	DriveID string `json:"driveId"`
}

func (g *WebhookGateway) CreateFolder(ctx context.Context, name, description string) (models.Folder, error) {
	name, err := validName(name)
	if err != nil {
		return models.Folder{}, err
	}

	var out createFolderResponse
	err = g.client.PostJSON(ctx, g.base+"/empreendimento", createFolderRequest{
		Action:    "create",
		Nome:      name,
		Descricao: description,
	}, &out)
	if err != nil {
		g.log.Warn(ctx, "create folder failed", "name", name, "err", err)
		return models.Folder{}, mapHTTPError(ErrCreationFailed, err)
	}
	if out.DriveFolderID == "" {
		return models.Folder{}, failf(ErrCreationFailed, "response has no driveFolderId")
	}

	f := models.Folder{ID: out.ID, Ref: out.DriveFolderID, Name: out.Nome, Description: out.Descricao}
	if f.Name == "" {
		f.Name = name
	}
	if f.Description == "" {
		f.Description = description
	}
	g.log.Debug(ctx, "folder created", "ref", f.Ref, "id", f.ID)
	return f, nil
}

func (g *WebhookGateway) UploadFile(ctx context.Context, folderRef string, p models.Payload) (string, error) {
	if folderRef == "" {
		return "", fail(ErrUploadFailed, ErrInvalidRef)
	}

	rc, err := p.Open()
	if err != nil {
		return "", fail(ErrUploadFailed, err)
	}
	defer rc.Close()

	var out uploadResponse
	err = g.client.PostMultipart(ctx, g.base+"/upload/"+url.PathEscape(folderRef), netx.FilePart{
		Field:       "file",
		FileName:    p.Name,
		ContentType: p.ContentType(),
		Body:        rc,
	}, &out)
	if err != nil {
		g.log.Warn(ctx, "upload failed", "name", p.Name, "err", err)
		return "", mapHTTPError(ErrUploadFailed, err)
	}
	if out.DriveID == "" {
		return "", failf(ErrUploadFailed, "response has no driveId")
	}
	return out.DriveID, nil
}

func (g *WebhookGateway) DeleteFile(ctx context.Context, remoteRef string) error {
	return g.delete(ctx, "/file/", remoteRef)
}

func (g *WebhookGateway) DeleteFolder(ctx context.Context, folderRef string) error {
	return g.delete(ctx, "/empreendimento/", folderRef)
}

func (g *WebhookGateway) delete(ctx context.Context, route, ref string) error {
	if ref == "" {
		return fail(ErrDeleteFailed, ErrInvalidRef)
	}
	err := g.client.Delete(ctx, g.base+route+url.PathEscape(ref), nil)
	if netx.StatusCode(err) == http.StatusNotFound {
		g.log.Debug(ctx, "already absent", "ref", ref)
		return nil
	}
	if err != nil {
		g.log.Warn(ctx, "delete failed", "ref", ref, "err", err)
		return mapHTTPError(ErrDeleteFailed, err)
	}
	return nil
}

func (g *WebhookGateway) authorize(req *http.Request) error {
	now := g.now()
	claims := jwt.RegisteredClaims{
		Issuer:    "genio",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(webhookTokenTTL)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return fmt.Errorf("sign webhook token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+signed)
	return nil
}

// mapHTTPError converts a transport or status error into kind, adding
// ErrAuthRequired or ErrBackendUnavailable where they apply.
func mapHTTPError(kind, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fail(kind, err)
	}

	code := netx.StatusCode(err)
	switch {
	case code == 0:
		return fmt.Errorf("%w: %w: %v", kind, ErrBackendUnavailable, err)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fail(kind, ErrAuthRequired)
	case code == http.StatusBadRequest && kind == ErrCreationFailed:
		return fmt.Errorf("%w: %w: %s", kind, ErrInvalidName, reason(err))
	case code >= 500 || code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w: %s", kind, ErrBackendUnavailable, reason(err))
	default:
		return failf(kind, "%s", reason(err))
	}
}

// reason extracts a human readable message from a failed response. JSON
// bodies with a "message" or "error" field yield that field.
func reason(err error) string {
	var se *netx.StatusError
	if !errors.As(err, &se) {
		return err.Error()
	}

	body := strings.TrimSpace(se.Body)
	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(body), &msg) == nil {
		if msg.Message != "" {
			return msg.Message
		}
		if msg.Error != "" {
			return msg.Error
		}
	}
	if body == "" {
		return http.StatusText(se.Code)
	}
	return body
}
