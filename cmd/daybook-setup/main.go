// Daybook-setup creates the user account. Run once after first deploy.
//
// It generates a fresh API key, stores only its hash, and prints the
// key once, along with a QR code for pairing a phone shortcut.
//
// Usage:
//
//	daybook-setup -email you@example.com -name "Your Name" [-config p.yaml]
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/config"
	"github.com/daybook-ai/daybook/internal/store"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for database/sql
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(stdout io.Writer, args []string) error {
	var configPath, email, name string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-email" && i+1 < len(args):
			email = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-email="):
			email = strings.TrimPrefix(args[i], "-email=")
		case args[i] == "-name" && i+1 < len(args):
			name = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-name="):
			name = strings.TrimPrefix(args[i], "-name=")
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	if email == "" || name == "" {
		return fmt.Errorf("usage: daybook-setup -email you@example.com -name \"Your Name\" [-config path]")
	}

	configPath, err := config.FindConfig(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory %s: %w", cfg.DataDir, err)
	}
	st, err := store.New(cfg.DataDir + "/daybook.db")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	existing, err := st.FirstUser()
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Fprintf(stdout, "User already exists: %s\n", existing.Email)
		fmt.Fprintln(stdout, "Delete daybook.db and run again to reset.")
		return nil
	}

	key, err := auth.NewKey()
	if err != nil {
		return err
	}
	user, err := st.CreateUser(email, name, auth.HashKey(key))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(stdout, "User created: %s (%s)\n\n", user.Name, user.Email)
	fmt.Fprintf(stdout, "API key (shown once, only the hash is stored):\n\n  %s\n\n", key)

	// QR code for pairing a phone shortcut with the key.
	qr, err := qrcode.New(key, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("render qr code: %w", err)
	}
	fmt.Fprintln(stdout, qr.ToSmallString(false))

	fmt.Fprintln(stdout, "Start the server with: daybookd")
	return nil
}
