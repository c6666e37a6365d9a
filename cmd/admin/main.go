package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"liars-server/internal/config"
	"liars-server/internal/jwt"
	"liars-server/pkg/audit"
	"liars-server/pkg/db"
	"liars-server/pkg/deck"
	"liars-server/pkg/ledger"
)

var command = flag.String("c", "balances", "specifies the command (credit, balance, balances, token, verify)")
var playerID = flag.Int64("player", 0, "the player ID")
var amount = flag.Int("amount", 0, "the amount to credit")
var recordID = flag.String("id", "", "the audit record ID to verify")
var yes = flag.Bool("y", false, "do not ask for confirmation")

func main() {
	flag.Parse()
	ctx := context.Background()

	switch *command {
	case "credit":
		requirePlayer()
		if *amount <= 0 {
			logrus.Fatal("-amount must be greater than zero")
		}

		account := ledger.PlayerAccount(*playerID)
		if !confirm(fmt.Sprintf("Credit %d to %s", *amount, account)) {
			os.Exit(1)
		}

		l := postgresLedger()
		if err := l.Credit(ctx, account, *amount); err != nil {
			logrus.WithError(err).Fatal("could not credit account")
		}

		printBalance(ctx, l, account)
	case "balance":
		requirePlayer()
		printBalance(ctx, postgresLedger(), ledger.PlayerAccount(*playerID))
	case "balances":
		balances, err := postgresLedger().Balances(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("could not list balances")
		}

		data := pterm.TableData{{"Account", "Balance"}}
		for _, b := range balances {
			data = append(data, []string{string(b.Account), strconv.Itoa(b.Amount)})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			logrus.WithError(err).Fatal("could not render balances")
		}
	case "token":
		requirePlayer()
		if err := jwt.LoadKeys(); err != nil {
			logrus.WithError(err).Fatal("could not load jwt keys")
		}

		signed, err := jwt.Sign(*playerID)
		if err != nil {
			logrus.WithError(err).Fatal("could not sign token")
		}

		fmt.Println(signed)
	case "verify":
		if *recordID == "" {
			logrus.Fatal("-id is required")
		}

		printVerification(ctx, audit.ID(strings.ToLower(*recordID)))
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func requirePlayer() {
	if *playerID <= 0 {
		logrus.Fatal("-player is required")
	}
}

func postgresLedger() *ledger.Postgres {
	if config.Instance().PGDSN == "" {
		logrus.Fatal("no postgres dsn configured")
	}

	return ledger.NewPostgres(db.Instance())
}

func printBalance(ctx context.Context, l ledger.Ledger, account ledger.Account) {
	balance, err := l.BalanceOf(ctx, account)
	if err != nil {
		logrus.WithError(err).Fatal("could not get balance")
	}

	pterm.Info.Printfln("%s holds %d", account, balance)
}

func printVerification(ctx context.Context, id audit.ID) {
	cfg := config.Instance().Redis
	if cfg.Addr == "" {
		logrus.Fatal("no redis address configured")
	}

	dialCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	store, err := audit.Dial(dialCtx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to redis")
	}
	defer store.Close()

	v, err := audit.VerifyMove(ctx, store, id)
	if err != nil {
		logrus.WithError(err).Fatal("could not verify move")
	}

	verdict := pterm.LightGreen("truthful")
	if v.IsLying {
		verdict = pterm.LightRed("a lie")
	}

	body := pterm.Sprintfln("player %d claimed %q", v.PlayerID, v.Claim) +
		pterm.Sprintfln("cards played: %s", deck.Symbols(v.ActualCards)) +
		pterm.Sprintfln("hash valid: %t", v.HashValid) +
		pterm.Sprintf("the move was %s", verdict)

	pterm.DefaultBox.WithTitle(string(id)).WithHorizontalPadding(2).Println(body)
}

// confirm asks before changing balances
// Without a terminal the -y flag is required.
func confirm(question string) bool {
	if *yes {
		return true
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintln(os.Stderr, "not a terminal, pass -y to confirm")
		return false
	}

	answer, err := getInput(question + " (y/N)")
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	return answer != "" && strings.ToLower(answer)[0] == 'y'
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}
