package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	log "github.com/sirupsen/logrus"

	"github.com/lahirunirmalx/cOrange/internal/alert"
	"github.com/lahirunirmalx/cOrange/internal/credential"
	"github.com/lahirunirmalx/cOrange/internal/customhttp"
	"github.com/lahirunirmalx/cOrange/internal/dispatch"
	"github.com/lahirunirmalx/cOrange/internal/importer"
	"github.com/lahirunirmalx/cOrange/internal/journal"
	"github.com/lahirunirmalx/cOrange/internal/metrics"
	"github.com/lahirunirmalx/cOrange/internal/orangehrm"
	"github.com/lahirunirmalx/cOrange/internal/punch"
)

const metricsNamespace = "corange"

type ApplicationConfig struct {
	envValues *envConfig
	client    orangehrm.ClientInterface
	store     *credential.Store
	journal   *journal.Journal
	workflow  *punch.Workflow
	recorder  *metrics.Recorder
	emailer   *alert.Emailer
	location  *time.Location
}

// newEmailClient builds the SES client used when no override is given.
var newEmailClient = func(region string) (alert.RawEmailSender, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return ses.New(sess), nil
}

type options struct {
	httpClient  customhttp.HTTPCommand
	emailClient alert.RawEmailSender
	journal     io.Writer
	location    *time.Location
}

// Option overrides a dependency NewApplicationConfig would otherwise build.
type Option func(*options)

func WithHTTPClient(c customhttp.HTTPCommand) Option {
	return func(o *options) { o.httpClient = c }
}

func WithEmailClient(c alert.RawEmailSender) Option {
	return func(o *options) { o.emailClient = c }
}

// WithJournalWriter sends journal entries to w instead of JOURNAL_FILE.
func WithJournalWriter(w io.Writer) Option {
	return func(o *options) { o.journal = w }
}

// WithLocation sets the zone punch times are reported in. The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

//NewApplicationConfig loads config values from environment and the credential file
func NewApplicationConfig(opts ...Option) (*ApplicationConfig, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	envValues := NewEnvironmentConfig()
	creds, err := credential.Load(envValues.ConfigFile)
	if err != nil {
		return nil, err
	}

	var emailer *alert.Emailer
	if envValues.EmailTo != "" && envValues.EmailFrom != "" {
		emailClient := o.emailClient
		if emailClient == nil {
			if emailClient, err = newEmailClient(envValues.AWSRegion); err != nil {
				return nil, err
			}
		}
		emailer = alert.NewEmailer(emailClient, envValues.EmailTo, envValues.EmailFrom)
	}

	var j *journal.Journal
	if o.journal != nil {
		j = journal.New(o.journal)
	} else if j, err = journal.Open(envValues.JournalFile); err != nil {
		return nil, err
	}

	httpCommand := NewHTTPCommand(envValues.RequestTimeout, o.httpClient)
	client := orangehrm.NewClient(httpCommand)

	cfg := &ApplicationConfig{
		envValues: envValues,
		client:    client,
		store:     credential.NewStore(creds),
		journal:   j,
		workflow: punch.NewWorkflow(client, j, o.location).
			WithConcurrency(int64(envValues.MaxConcurrentPunches)),
		recorder: metrics.NewRecorder(metricsNamespace),
		emailer:  emailer,
		location: o.location,
	}
	return cfg, nil
}

// NewHTTPCommand returns the HTTP client used for every OrangeHRM call.
func NewHTTPCommand(timeout time.Duration, client customhttp.HTTPCommand) customhttp.HTTPCommand {
	opts := []func(*customhttp.HTTPCommandBuilder){
		customhttp.WithTimeout(timeout),
		customhttp.WithRequestLogging(),
	}
	if client != nil {
		opts = append(opts, customhttp.WithHTTPClient(client))
	}
	return customhttp.New(opts...).Build()
}

//Version returns application version
func (cfg *ApplicationConfig) Version() string {
	return cfg.envValues.Version
}

//ServerPort returns the port no to listen for requests
func (cfg *ApplicationConfig) ServerPort() int {
	return cfg.envValues.ServerPort
}

//UploadDir returns where uploaded timesheets are written
func (cfg *ApplicationConfig) UploadDir() string {
	return cfg.envValues.UploadDir
}

//MetricsHandler serves the prometheus registry
func (cfg *ApplicationConfig) MetricsHandler() http.Handler {
	return cfg.recorder.Handler()
}

//Client returns the OrangeHRM API client
func (cfg *ApplicationConfig) Client() orangehrm.ClientInterface {
	return cfg.client
}

//Credentials returns the shared credential store
func (cfg *ApplicationConfig) Credentials() *credential.Store {
	return cfg.store
}

// Authenticate fetches a token with the stored credentials and keeps it in
// the store for later snapshots.
func (cfg *ApplicationConfig) Authenticate(ctx context.Context) error {
	updated, err := cfg.client.FetchToken(ctx, cfg.store.Snapshot())
	if err != nil {
		return err
	}
	cfg.store.SetAccessToken(updated.AccessToken)
	log.WithContext(ctx).Info("access token acquired")
	return nil
}

// NewDispatcher returns a dispatcher that reports to metrics, email alerts
// and any extra notifiers.
func (cfg *ApplicationConfig) NewDispatcher(extra ...dispatch.Notifier) *dispatch.Dispatcher {
	return dispatch.New(cfg.workflow, cfg.store, cfg.notifier(extra...)).
		WithJournal(cfg.journal).
		OnDuplicate(func(punch.Cycle) { cfg.recorder.DuplicateDispatch() })
}

func (cfg *ApplicationConfig) NewImporter(extra ...dispatch.Notifier) *importer.Service {
	return importer.NewService(cfg.workflow, cfg.store, cfg.notifier(extra...),
		cfg.envValues.ImportRatePerSecond, cfg.envValues.ImportConcurrency).
		WithLocation(cfg.location).
		WithJournal(cfg.journal)
}

func (cfg *ApplicationConfig) notifier(extra ...dispatch.Notifier) dispatch.Notifier {
	notifiers := []dispatch.Notifier{cfg.recorder}
	if cfg.emailer != nil {
		notifiers = append(notifiers, cfg.emailer)
	}
	return dispatch.Multi(append(notifiers, extra...)...)
}

// Close flushes the journal and wipes credentials.
func (cfg *ApplicationConfig) Close() error {
	cfg.store.Release()
	return cfg.journal.Close()
}
