package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/novacoinotc/claudewallet/internal/core/application"
	"github.com/novacoinotc/claudewallet/internal/core/domain"
	aescypher "github.com/novacoinotc/claudewallet/internal/infrastructure/bundle-cypher/aes"
	dbbadger "github.com/novacoinotc/claudewallet/internal/infrastructure/storage/db/badger"
)

var (
	colorRed   = string("\033[31m")
	httpClient = &http.Client{Timeout: 2 * time.Minute}
)

func initialState() map[string]string {
	return map[string]string{
		"base_url": "http://localhost:3001",
	}
}

func getState() (map[string]string, error) {
	file, err := os.ReadFile(statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := writeState(initialState()); err != nil {
			return nil, err
		}
		return initialState(), nil
	}

	data := map[string]string{}
	json.Unmarshal(file, &data)
	return data, nil
}

func setState(partialState map[string]string) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range partialState {
		state[key] = value
	}
	return writeState(state)
}

func writeState(state map[string]string) error {
	dir := filepath.Dir(statePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("failed to create directory: %v", err)
		}
	}

	buf, _ := json.MarshalIndent(state, "", "  ")
	if err := os.WriteFile(statePath, buf, 0755); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func baseURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	url, ok := state["base_url"]
	if !ok || len(url) == 0 {
		return "", fmt.Errorf("set base_url with `claudewallet config set base_url`")
	}
	return strings.TrimSuffix(url, "/"), nil
}

func getJSON(path string, out interface{}) error {
	url, err := baseURL()
	if err != nil {
		return err
	}

	resp, err := httpClient.Get(url + path)
	if err != nil {
		return fmt.Errorf("failed to connect to claudewallet daemon: %v", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func postJSON(path string, body, out interface{}) error {
	url, err := baseURL()
	if err != nil {
		return err
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := httpClient.Post(
		url+path, "application/json", bytes.NewReader(buf),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to claudewallet daemon: %v", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		errBody := map[string]interface{}{}
		if err := json.Unmarshal(buf, &errBody); err == nil {
			if msg, ok := errBody["error"].(string); ok {
				if feeTxID, ok := errBody["feeTxID"].(string); ok {
					return fmt.Errorf("%s (fee leg txid: %s)", msg, feeTxID)
				}
				return fmt.Errorf("%s", msg)
			}
		}
		return fmt.Errorf("daemon replied with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(buf, out)
}

func jsonPrint(v interface{}) {
	buf, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(buf))
}

func printErr(err error) {
	msg := fmt.Sprintf("%s%s", colorRed, capitalize(err.Error()))
	fmt.Fprintln(os.Stderr, msg)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	ss := strings.ToUpper(s[0:1])
	ss += s[1:]
	return ss
}

// readPassword prompts on the terminal without echoing. The --password flag
// takes precedence so that scripts can avoid the prompt.
func readPassword(prompt string) (string, error) {
	if len(password) > 0 {
		return password, nil
	}

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	buf, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %v", err)
	}
	if len(buf) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}
	return string(buf), nil
}

// getWalletService opens the CLI's local wallet store. Keys never leave this
// machine, the daemon only ever sees signed transactions.
func getWalletService() (*application.WalletService, func(), error) {
	cypher, err := aescypher.NewAESCypher(aescypher.DefaultScryptParams)
	if err != nil {
		return nil, nil, err
	}
	domain.BundleCypher = cypher

	repo, err := dbbadger.NewWalletRepository(datadir, nil)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if closer, ok := repo.(interface{ Close() error }); ok {
			closer.Close()
		}
	}

	return application.NewWalletService(repo), cleanup, nil
}
