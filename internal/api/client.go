// Package api creates and deletes back-office entities through the
// admin form endpoints, bypassing the UI.
package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/utils"
)

// DefaultTimeout bounds every admin request.
const DefaultTimeout = 10 * time.Second

const loginPath = "/admin/login.php"

// endpoint describes the admin pages handling one entity type.
type endpoint struct {
	edit string
	list string
	// idParam is the query parameter carrying the entity ID.
	idParam string
	// nameField is the lookup field shown as the entity's link text.
	nameField string
}

func (e endpoint) deletePath(id string) string {
	return e.edit + "&" + e.idParam + "=" + url.QueryEscape(id)
}

var endpoints = map[models.EntityType]endpoint{
	models.EntityTypeGeozone: {
		edit:      "/admin/?app=geo_zones&doc=edit_geo_zone",
		list:      "/admin/?app=geo_zones&doc=geo_zones",
		idParam:   "geo_zone_id",
		nameField: "name",
	},
	models.EntityTypeProduct: {
		edit:      "/admin/?app=catalog&doc=edit_product&category_id=0",
		list:      "/admin/?app=catalog&doc=catalog&category_id=0",
		idParam:   "product_id",
		nameField: "name",
	},
	models.EntityTypeUser: {
		edit:      "/admin/?app=users&doc=edit_user",
		list:      "/admin/?app=users&doc=users",
		idParam:   "user_id",
		nameField: "username",
	},
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	Debug    bool
	Log      *zap.Logger
}

// Client is an authenticated admin session.
type Client struct {
	http    *resty.Client
	baseURL string
	log     *zap.Logger
}

type sessionKey struct {
	baseURL, username, password string
}

var (
	sessionsMu sync.Mutex
	sessions   = map[sessionKey]*resty.Client{}
)

// ResetSessions forgets every cached admin session.
func ResetSessions() {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	sessions = map[sessionKey]*resty.Client{}
}

// New returns a client logged in as the given admin. Sessions are cached
// per base URL and credentials for the life of the process.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	log := opts.Log.With(zap.String("base_url", baseURL), zap.String("admin", opts.Username))

	key := sessionKey{baseURL, opts.Username, opts.Password}
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	if hc, ok := sessions[key]; ok {
		return &Client{http: hc, baseURL: baseURL, log: log}, nil
	}

	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "bo-e2e")
	if opts.Debug {
		hc.SetDebug(true)
	}

	c := &Client{http: hc, baseURL: baseURL, log: log}
	if err := c.login(ctx, opts.Username, opts.Password); err != nil {
		return nil, err
	}
	sessions[key] = hc
	return c, nil
}

// FromConfig returns a client for the configured admin account.
func FromConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	return New(ctx, Options{
		BaseURL:  cfg.BaseURL,
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
		Timeout:  cfg.API.Timeout,
		Debug:    cfg.API.Debug,
		Log:      log,
	})
}

func (c *Client) login(ctx context.Context, username, password string) error {
	c.log.Info("Logging in admin session", zap.String("password", utils.MaskString(password)))

	form := url.Values{}
	form.Set("login", "true")
	form.Set("redirect_url", "")
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.post(ctx, "LOGIN", loginPath, form, nil)
	if err != nil {
		return err
	}
	if strings.HasSuffix(resp.RawResponse.Request.URL.Path, loginPath) {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Operation:  "LOGIN",
			URL:        c.baseURL + loginPath,
			Message:    "still on the login page after signing in",
		}
	}
	return nil
}

// post submits form (multipart when files are given) and checks that the
// final page is a 200 without an error notice.
func (c *Client) post(ctx context.Context, op, path string, form url.Values, files []models.FormFile) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx).SetFormDataFromValues(form)

	for _, f := range files {
		fh, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", f.Path, err)
		}
		defer fh.Close()
		ctype := mime.TypeByExtension(filepath.Ext(f.Path))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		req.SetMultipartField(f.Param, filepath.Base(f.Path), ctype, fh)
	}

	resp, err := req.Post(path)
	if err != nil {
		return nil, &NetworkError{Operation: op, URL: c.baseURL + path, Err: err}
	}
	return resp, c.check(op, path, resp)
}

func (c *Client) get(ctx context.Context, op, path string) (*resty.Response, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, &NetworkError{Operation: op, URL: c.baseURL + path, Err: err}
	}
	return resp, c.check(op, path, resp)
}

func (c *Client) check(op, path string, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Operation:  op,
			URL:        c.baseURL + path,
			Message:    http.StatusText(resp.StatusCode()),
			Details:    utils.Truncate(string(resp.Body()), 200),
		}
	}
	if msgs := notices(resp.Body(), errorNoticeClass); len(msgs) > 0 {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Operation:  op,
			URL:        c.baseURL + path,
			Message:    strings.Join(msgs, "; "),
		}
	}
	return nil
}

func endpointFor(e models.Entity) (endpoint, error) {
	ep, ok := endpoints[e.EntityType()]
	if !ok {
		return endpoint{}, fmt.Errorf("no admin endpoint for entity type %q", e.EntityType())
	}
	return ep, nil
}

// Create submits entity through its edit form. The entity ID is taken
// from the page the back office redirects to, or else from the entity's
// link on the list page.
func (c *Client) Create(ctx context.Context, e models.Entity) error {
	ep, err := endpointFor(e)
	if err != nil {
		return err
	}
	c.log.Info("Creating entity", zap.String("type", string(e.EntityType())), zap.Stringer("entity", stringer(e)))

	payload := e.Payload()
	form := url.Values{}
	for k, v := range payload.Fields {
		form[k] = append([]string(nil), v...)
	}
	form.Set("save", "Save")

	resp, err := c.post(ctx, "CREATE", ep.edit, form, payload.Files)
	if err != nil {
		return err
	}

	if id := resp.RawResponse.Request.URL.Query().Get(ep.idParam); id != "" {
		e.SetEntityID(id)
		return nil
	}

	id, err := c.FindID(ctx, e)
	if err != nil {
		return err
	}
	if id == "" {
		c.log.Warn("Entity created but its ID was not found", zap.String("type", string(e.EntityType())))
		return nil
	}
	e.SetEntityID(id)
	c.log.Info("Entity created", zap.String("type", string(e.EntityType())), zap.String("id", id))
	return nil
}

// FindID looks up the ID of e on its list page by its display name.
// It returns "" when the entity is not listed.
func (c *Client) FindID(ctx context.Context, e models.Entity) (string, error) {
	ep, err := endpointFor(e)
	if err != nil {
		return "", err
	}
	name := e.LookupParams()[ep.nameField]
	if name == "" {
		return "", nil
	}
	resp, err := c.get(ctx, "LIST", ep.list)
	if err != nil {
		return "", err
	}
	return idFromLinks(resp.Body(), resp.RawResponse.Request.URL, ep.idParam, name), nil
}

// Delete removes e. Entities without an ID are skipped.
func (c *Client) Delete(ctx context.Context, e models.Entity) error {
	if e.EntityID() == "" {
		c.log.Warn("Skipping delete of entity without ID", zap.Stringer("entity", stringer(e)))
		return nil
	}
	ep, err := endpointFor(e)
	if err != nil {
		return err
	}
	c.log.Info("Deleting entity", zap.String("type", string(e.EntityType())), zap.String("id", e.EntityID()))

	form := url.Values{}
	form.Set("delete", "Delete")
	_, err = c.post(ctx, "DELETE", ep.deletePath(e.EntityID()), form, nil)
	return err
}

// DeleteAll deletes every entity once and joins the failures.
func (c *Client) DeleteAll(ctx context.Context, entities []models.Entity) error {
	var errs []error
	for _, e := range entities {
		if err := c.Delete(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("delete %s %s: %w", e.EntityType(), e.EntityID(), err))
		}
	}
	return errors.Join(errs...)
}

// CreateAdminUser creates a fresh admin account.
func (c *Client) CreateAdminUser(ctx context.Context) (*models.UserEntity, error) {
	u := models.NewAdminUser()
	if err := c.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type entityStringer struct{ e models.Entity }

func (s entityStringer) String() string { return fmt.Sprint(s.e) }

func stringer(e models.Entity) fmt.Stringer { return entityStringer{e} }
