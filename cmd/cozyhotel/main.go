// Command cozyhotel is a terminal client for the CozyHotel booking API.
// State (token, profile, selected room, offline bookings) persists in the
// configured store between invocations.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"

	"github.com/wolfman30/cozyhotel-client/cmd/mainconfig"
	"github.com/wolfman30/cozyhotel-client/internal/chat"
	"github.com/wolfman30/cozyhotel-client/internal/checkout"
	appconfig "github.com/wolfman30/cozyhotel-client/internal/config"
	"github.com/wolfman30/cozyhotel-client/internal/credentials"
	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/offline"
	"github.com/wolfman30/cozyhotel-client/internal/session"
	"github.com/wolfman30/cozyhotel-client/internal/storage"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

func main() {
	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// globalOptions override the environment configuration for one invocation.
type globalOptions struct {
	APIBaseURL string `long:"api" description:"hotel API base URL"`
	Store      string `long:"store" description:"state backend (memory, sqlite, redis)" choice:"memory" choice:"sqlite" choice:"redis"`
	StorePath  string `long:"store-path" description:"sqlite state file"`
	Demo       bool   `long:"demo" description:"record bookings offline instead of paying"`
	ChatMode   string `long:"chat-mode" description:"chat replies from the server or the local keyword table" choice:"server" choice:"local"`
	LogLevel   string `long:"log-level" description:"log level for stderr" choice:"debug" choice:"info" choice:"warn" choice:"error"`
}

// cli is shared by every subcommand.
type cli struct {
	ctx    context.Context
	opts   globalOptions
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *appconfig.Config
	logger  *logging.Logger
	store   storage.ClosableBackend
	creds   *credentials.Store
	session *session.Store
	offline *offline.Cache
	api     *hotelapi.Client
	card    checkout.CardConfirmer

	// redirect is the last navigation target issued by the pipeline.
	redirect string
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{
		ctx:    ctx,
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}
	defer c.close()

	parser := newParser(c)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return 0
		}
		c.fail(err)
		return 1
	}
	return 0
}

func newParser(c *cli) *flags.Parser {
	parser := flags.NewNamedParser("cozyhotel", flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.AddGroup("Global Options", "", &c.opts); err != nil {
		panic(err)
	}
	for _, cmd := range commands(c) {
		if _, err := parser.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data); err != nil {
			panic(err)
		}
	}
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			return nil
		}
		if err := c.setup(); err != nil {
			return err
		}
		return command.Execute(args)
	}
	return parser
}

// setup builds the client stack once flags are parsed.
func (c *cli) setup() error {
	cfg := appconfig.Load()
	if c.opts.APIBaseURL != "" {
		cfg.APIBaseURL = strings.TrimRight(c.opts.APIBaseURL, "/")
	}
	if c.opts.Store != "" {
		cfg.StoreBackend = c.opts.Store
	}
	if c.opts.StorePath != "" {
		cfg.StorePath = c.opts.StorePath
	}
	if c.opts.Demo {
		cfg.DemoMode = true
	}
	if c.opts.ChatMode != "" {
		cfg.ChatMode = c.opts.ChatMode
	}
	if c.opts.LogLevel != "" {
		cfg.LogLevel = c.opts.LogLevel
	} else if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	c.cfg = cfg
	c.logger = logging.NewWithWriter(cfg.LogLevel, c.stderr)

	store, err := mainconfig.OpenStore(c.ctx, cfg)
	if err != nil {
		return err
	}
	c.store = store
	c.creds = credentials.NewStore(storage.Namespace(store, "cred:"), c.logger)
	c.session = session.New(storage.Namespace(store, "session:"))
	c.offline = offline.New(storage.Namespace(store, "offline:"))
	c.card = mainconfig.CardConfirmer(cfg, c.logger)
	c.api = hotelapi.New(hotelapi.Options{
		BaseURL:     cfg.APIBaseURL,
		HTTPClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		Credentials: c.creds,
		Navigator:   hotelapi.NavigatorFunc(c.navigate),
		LoginPath:   cfg.LoginPath,
		HomePath:    cfg.HomePath,
		Logger:      c.logger,
	})
	return nil
}

func (c *cli) close() {
	if c.store == nil {
		return
	}
	if err := c.store.Close(); err != nil {
		c.logger.Warn("close store", "error", err)
	}
}

// navigate stands in for page navigation: the terminal has no pages, so the
// target becomes a hint about which command to run next.
func (c *cli) navigate(_ context.Context, target string) {
	c.redirect = target
	switch target {
	case c.cfg.LoginPath:
		color.New(color.FgYellow).Fprintln(c.stderr, "Please sign in: run `cozyhotel login`.")
	case c.cfg.HomePath:
		fmt.Fprintln(c.stderr, "Signed out.")
	default:
		fmt.Fprintf(c.stderr, "Next: %s\n", target)
	}
}

func (c *cli) fail(err error) {
	// The navigator has already told the user to sign in.
	if hotelapi.IsKind(err, hotelapi.KindAuthenticationRequired) && c.redirect != "" {
		return
	}
	color.New(color.FgRed).Fprintf(c.stderr, "Error: %s\n", hotelapi.ErrorMessage(err))
}

// readLine prompts on stderr and reads one line from stdin.
func (c *cli) readLine(prompt string) (string, error) {
	fmt.Fprint(c.stderr, prompt)
	line, err := c.stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) chatWidget() *chat.Widget {
	return chat.NewWidget(c.api.Chat, c.creds, chat.ParseMode(c.cfg.ChatMode), c.logger)
}
