package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/MKhiriev/go-flock-vault/internal/adapter"
	"github.com/MKhiriev/go-flock-vault/internal/config"
	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/internal/vault"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usage = `usage: flock-vault-client <command> [args]

commands:
  login <account>                       derive the vault key and save a local session
  logout                                clear the local session
  register <account>                    create a new account on the server
  check                                 verify the saved session against the server
  list                                  list and decrypt all records
  get <item>                            fetch and decrypt one record
  put <item> <type>                     encrypt JSON from stdin and store it
  delete <item>                         remove one record
  metadata                              print the account metadata
  set-metadata                          replace the account metadata with JSON from stdin
  subscribe <token> <timezone> <hours>  register push notifications (hours comma-separated)
`

func main() {
	printBuildInfo()

	log := logger.NewLogger("flock-vault-client")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if err := run(context.Background(), cfg, log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) error {
	args := nonFlagArgs()
	if len(args) == 0 {
		fmt.Print(usage)
		return errors.New("no command given")
	}
	command, args := args[0], args[1:]

	sessions, err := store.NewSessionStore(ctx, cfg.Storage.Session, log)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer sessions.Close()

	server := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Client.ServerURL,
		Timeout: cfg.Client.Timeout,
	})

	switch command {
	case "login":
		return login(ctx, args, server, sessions)
	case "logout":
		return sessions.Clear(ctx)
	case "register":
		return register(ctx, args, server, sessions)
	}

	// Every other command needs a saved session.
	client, err := resumeClient(ctx, server, sessions)
	if err != nil {
		return err
	}

	switch command {
	case "check":
		return check(ctx, client)
	case "list":
		return list(ctx, client)
	case "get":
		return get(ctx, args, client)
	case "put":
		return put(ctx, args, client)
	case "delete":
		return deleteItem(ctx, args, client)
	case "metadata":
		return metadata(ctx, client)
	case "set-metadata":
		return setMetadata(ctx, client)
	case "subscribe":
		return subscribe(ctx, args, client)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// nonFlagArgs returns the command words after any -flag arguments consumed by
// the config layer.
func nonFlagArgs() []string {
	args := make([]string, 0, len(os.Args)-1)
	skipNext := false
	for _, arg := range os.Args[1:] {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(arg, "-") {
			if !strings.Contains(arg, "=") {
				skipNext = true
			}
			continue
		}
		args = append(args, arg)
	}
	return args
}

func login(ctx context.Context, args []string, server adapter.ServerAdapter, sessions store.SessionStore) error {
	if len(args) != 1 {
		return errors.New("login needs exactly one argument: the account identifier")
	}
	account := args[0]

	password, err := promptPassword()
	if err != nil {
		return err
	}

	client, err := vault.New(account, password, server)
	if err != nil {
		return err
	}

	valid, err := client.CheckPassword(ctx)
	if err != nil {
		return err
	}
	if !valid {
		return errors.New("wrong account or password")
	}

	if err := sessions.Save(ctx, account, client.ExportKey()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Println("logged in as", account)
	return nil
}

func register(ctx context.Context, args []string, server adapter.ServerAdapter, sessions store.SessionStore) error {
	if len(args) != 1 {
		return errors.New("register needs exactly one argument: the account identifier")
	}
	account := args[0]

	password, err := promptPassword()
	if err != nil {
		return err
	}

	client, err := vault.New(account, password, server)
	if err != nil {
		return err
	}

	created, err := client.Register(ctx, nil)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("account %q is already taken", account)
	}

	if err := sessions.Save(ctx, account, client.ExportKey()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Println("registered account", account)
	return nil
}

func resumeClient(ctx context.Context, server adapter.ServerAdapter, sessions store.SessionStore) (*vault.Client, error) {
	session, err := sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoLocalSession) {
			return nil, errors.New("not logged in, run `login <account>` first")
		}
		return nil, err
	}

	return vault.Resume(session.Account, session.Key, server)
}

func check(ctx context.Context, client *vault.Client) error {
	valid, err := client.CheckPassword(ctx)
	if err != nil {
		return err
	}
	if !valid {
		return errors.New("session is no longer valid")
	}
	fmt.Println("ok")
	return nil
}

func list(ctx context.Context, client *vault.Client) error {
	items, itemErrs, err := client.FetchAll(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		fmt.Printf("%s\t%s\t%s\n", item.ItemID, item.Type, string(item.Data))
	}
	for id, itemErr := range itemErrs {
		fmt.Fprintf(os.Stderr, "%s: %v\n", id, itemErr)
	}

	return nil
}

func get(ctx context.Context, args []string, client *vault.Client) error {
	if len(args) != 1 {
		return errors.New("get needs exactly one argument: the item identifier")
	}

	var data json.RawMessage
	if err := client.Fetch(ctx, args[0], &data); err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func put(ctx context.Context, args []string, client *vault.Client) error {
	if len(args) != 2 {
		return errors.New("put needs two arguments: the item identifier and its type")
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var data json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("stdin is not valid JSON: %w", err)
	}

	return client.Store(ctx, args[0], args[1], data)
}

func deleteItem(ctx context.Context, args []string, client *vault.Client) error {
	if len(args) != 1 {
		return errors.New("delete needs exactly one argument: the item identifier")
	}

	if !client.Delete(ctx, args[0]) {
		fmt.Println("nothing to delete")
		return nil
	}

	fmt.Println("deleted", args[0])
	return nil
}

func metadata(ctx context.Context, client *vault.Client) error {
	data, err := client.Metadata(ctx)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func setMetadata(ctx context.Context, client *vault.Client) error {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var data json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("stdin is not valid JSON: %w", err)
	}

	return client.SetMetadata(ctx, data)
}

func subscribe(ctx context.Context, args []string, client *vault.Client) error {
	if len(args) != 3 {
		return errors.New("subscribe needs three arguments: token, timezone, comma-separated hours")
	}
	token, timezone := args[0], args[1]

	var hours []int
	for _, part := range strings.Split(args[2], ",") {
		hour, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || hour < 0 || hour > 23 {
			return fmt.Errorf("invalid hour %q", part)
		}
		hours = append(hours, hour)
	}

	return client.Subscribe(ctx, token, hours, timezone)
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")

	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	// Piped input, e.g. in scripts.
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
