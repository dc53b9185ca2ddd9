// Package firestore implements service.Store on the Firestore REST API.
package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	fs "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"fstodo/internal/config"
	"fstodo/internal/service"
)

const (
	// PageSize is the number of documents per list page.
	PageSize = 300

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Firestore.
	Scope = "https://www.googleapis.com/auth/datastore"
)

// Document field names.
const (
	fieldText      = "text"
	fieldCompleted = "completed"
	fieldDeadline  = "deadline"
)

// ErrNotConfigured is returned when no project ID is set.
var ErrNotConfigured = errors.New("firestore project_id not configured")

// Client implements service.Store using the Firestore REST API.
type Client struct {
	docs       *fs.ProjectsDatabasesDocumentsService
	parent     string
	collection string
}

// New creates a Firestore client from cfg. Authentication uses, in order,
// the configured API key, the configured service-account credentials file, or
// the OAuth token stored by login.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	settings := cfg.Settings.Firestore
	if settings.ProjectID == "" {
		return nil, ErrNotConfigured
	}

	var opts []option.ClientOption
	switch {
	case settings.APIKey != "":
		log.Debug("firestore: using api key")
		opts = append(opts, option.WithAPIKey(settings.APIKey))
	case settings.CredentialsFile != "":
		log.WithField("file", settings.CredentialsFile).Debug("firestore: using credentials file")
		opts = append(opts, option.WithCredentialsFile(settings.CredentialsFile))
	default:
		httpClient, err := oauthClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	svc, err := fs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore service: %w", err)
	}
	return newClient(svc, settings), nil
}

// NewWithHTTPClient creates a client against endpoint with a custom HTTP
// client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string, settings config.FirestoreSettings) (*Client, error) {
	svc, err := fs.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return newClient(svc, settings), nil
}

func newClient(svc *fs.Service, settings config.FirestoreSettings) *Client {
	return &Client{
		docs:       svc.Projects.Databases.Documents,
		parent:     fmt.Sprintf("projects/%s/databases/%s/documents", settings.ProjectID, settings.DatabaseID()),
		collection: settings.CollectionID(),
	}
}

// oauthClient builds an auto-refreshing HTTP client from the stored token.
func oauthClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read oauth_client.json: %v", service.ErrAuth, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid oauth_client.json: %v", service.ErrAuth, err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: not logged in (run: fstodo login)", service.ErrAuth)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid token.json: %v", service.ErrAuth, err)
	}

	return oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token)), nil
}

// ListAll returns every document in the collection.
func (c *Client) ListAll(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	err := c.docs.List(c.parent, c.collection).
		PageSize(PageSize).
		Context(ctx).
		Pages(ctx, func(resp *fs.ListDocumentsResponse) error {
			for _, doc := range resp.Documents {
				task, err := decodeTask(doc)
				if err != nil {
					// Keep the rest of the list usable
					log.WithError(err).WithField("doc", doc.Name).Warn("skipping malformed task document")
					continue
				}
				result = append(result, task)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	log.WithField("count", len(result)).Debug("firestore: listed tasks")
	return result, nil
}

// Create adds a new incomplete task document; Firestore assigns the ID.
func (c *Client) Create(ctx context.Context, text string, deadline time.Time) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc := &fs.Document{Fields: encodeFields(service.Patch{
		Text:      &text,
		Completed: googleapi.Bool(false),
		Deadline:  &deadline,
	})}
	created, err := c.docs.CreateDocument(c.parent, c.collection, doc).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	task, err := decodeTask(created)
	if err != nil {
		return service.Task{}, err
	}
	log.WithField("task", task.ID).Debug("firestore: created task")
	return task, nil
}

// Update writes the patched fields only; the document must exist.
func (c *Client) Update(ctx context.Context, id string, patch service.Patch) error {
	if patch.Empty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc := &fs.Document{Fields: encodeFields(patch)}
	_, err := c.docs.Patch(c.docName(id), doc).
		UpdateMaskFieldPaths(patch.Fields()...).
		CurrentDocumentExists(true).
		Context(ctx).
		Do()
	if err != nil {
		return wrapError(err)
	}
	log.WithField("task", id).WithField("fields", patch.Fields()).Debug("firestore: updated task")
	return nil
}

// Delete removes a task document; the document must exist.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.docs.Delete(c.docName(id)).CurrentDocumentExists(true).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	log.WithField("task", id).Debug("firestore: deleted task")
	return nil
}

func (c *Client) docName(id string) string {
	return c.parent + "/" + c.collection + "/" + id
}

func encodeFields(p service.Patch) map[string]fs.Value {
	fields := make(map[string]fs.Value)
	if p.Text != nil {
		fields[fieldText] = fs.Value{StringValue: googleapi.String(*p.Text)}
	}
	if p.Completed != nil {
		fields[fieldCompleted] = fs.Value{BooleanValue: googleapi.Bool(*p.Completed)}
	}
	if p.Deadline != nil {
		fields[fieldDeadline] = fs.Value{StringValue: googleapi.String(service.FormatDeadline(*p.Deadline))}
	}
	return fields
}

func decodeTask(doc *fs.Document) (service.Task, error) {
	task := service.Task{ID: path.Base(doc.Name)}
	if v, ok := doc.Fields[fieldText]; ok && v.StringValue != nil {
		task.Text = *v.StringValue
	}
	if v, ok := doc.Fields[fieldCompleted]; ok && v.BooleanValue != nil {
		task.Completed = *v.BooleanValue
	}
	v, ok := doc.Fields[fieldDeadline]
	if !ok {
		return service.Task{}, fmt.Errorf("%w: document %s has no deadline", service.ErrInvalid, task.ID)
	}
	var raw string
	switch {
	case v.StringValue != nil:
		raw = *v.StringValue
	case v.TimestampValue != "":
		raw = v.TimestampValue
	}
	deadline, err := service.ParseDeadline(raw)
	if err != nil {
		return service.Task{}, fmt.Errorf("document %s: %w", task.ID, err)
	}
	task.Deadline = deadline
	return task, nil
}

// wrapError maps API errors onto the service error sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return service.ErrTimeout
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (run: fstodo login)", service.ErrAuth)
		case http.StatusNotFound:
			return service.ErrNotFound
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", service.ErrInvalid, apiErr.Message)
		}
	}
	return err
}
