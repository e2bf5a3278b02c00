// Package notify delivers scrape lifecycle events to a Telegram chat and
// dispatches chat commands back into the application. Everything here is
// best-effort: delivery failures are logged, never returned to the pipeline.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Handler runs in response to a chat command such as /scrape.
type Handler func(ctx context.Context) error

// Telegram sends messages through the Bot API and long-polls getUpdates
// for commands. A zero token or chat ID disables it entirely.
type Telegram struct {
	token    string
	chatID   string
	baseURL  string
	client   *http.Client
	handlers map[string]Handler
	offset   int64
}

// New builds a notifier. baseURL overrides the Bot API host for tests; pass
// "" for the real one.
func New(token, chatID, baseURL string) *Telegram {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Telegram{
		token:    token,
		chatID:   chatID,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		handlers: map[string]Handler{},
	}
}

// Enabled reports whether both token and chat ID are configured.
func (t *Telegram) Enabled() bool {
	return t.token != "" && t.chatID != ""
}

func (t *Telegram) NotifyStart(profileURL string) {
	t.send(fmt.Sprintf("Scrape started for %s", profileURL))
}

func (t *Telegram) NotifySuccess(name string, fallback bool) {
	if fallback {
		t.send(fmt.Sprintf("Scrape finished for %s with fallback data", name))
		return
	}
	t.send(fmt.Sprintf("Scrape finished for %s", name))
}

func (t *Telegram) NotifyError(stage string, err error) {
	t.send(fmt.Sprintf("Scrape error at %s: %v", stage, err))
}

func (t *Telegram) send(text string) {
	if !t.Enabled() {
		return
	}
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	resp, err := t.client.PostForm(t.apiURL("sendMessage"), form)
	if err != nil {
		log.Printf("warning: telegram send failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("warning: telegram send returned %s", resp.Status)
	}
}

// RegisterCommand maps a chat command (e.g. "/scrape") to a handler.
func (t *Telegram) RegisterCommand(cmd string, h Handler) {
	t.handlers[cmd] = h
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// Listen long-polls for commands until ctx is cancelled. Run it in its own
// goroutine; it never returns an error, only logs.
func (t *Telegram) Listen(ctx context.Context) {
	if !t.Enabled() {
		return
	}
	log.Printf("telegram command listener started")
	for {
		select {
		case <-ctx.Done():
			log.Printf("telegram command listener stopped")
			return
		default:
		}

		updates, err := t.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("warning: telegram poll failed: %v", err)
			sleepCtx(ctx, 5*time.Second)
			continue
		}
		for _, u := range updates {
			t.offset = u.UpdateID + 1
			t.dispatch(ctx, u)
		}
		sleepCtx(ctx, time.Second)
	}
}

func (t *Telegram) getUpdates(ctx context.Context) ([]update, error) {
	// Long-poll hold must stay under the client timeout.
	u := t.apiURL("getUpdates") + "?timeout=5&offset=" + strconv.FormatInt(t.offset, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getUpdates returned %s", resp.Status)
	}
	var out updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("getUpdates not ok")
	}
	return out.Result, nil
}

func (t *Telegram) dispatch(ctx context.Context, u update) {
	cmd := strings.Fields(u.Message.Text)
	if len(cmd) == 0 {
		return
	}
	h, ok := t.handlers[cmd[0]]
	if !ok {
		return
	}
	t.send(fmt.Sprintf("Received command %s", cmd[0]))
	if err := h(ctx); err != nil {
		t.NotifyError(cmd[0], err)
		return
	}
	t.send(fmt.Sprintf("Command %s completed", cmd[0]))
}

func (t *Telegram) apiURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
