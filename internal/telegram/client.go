// Package telegram implements the minimal slice of the Telegram Bot API the
// service needs: long-polling for updates, sending messages and documents,
// and downloading uploaded files. It doubles as the backup.Channel used by
// the scheduler.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a Telegram Bot API client for a single bot token.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		// Long polls run up to 30s; leave headroom over that.
		http: &http.Client{Timeout: 50 * time.Second},
	}
}

// NewClientWithBaseURL creates a client pointed at a non-default API server.
// Tests use this with an httptest server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// Update is one inbound event from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound chat message. Only the fields the bot inspects are
// mapped.
type Message struct {
	Chat     Chat      `json:"chat"`
	Text     string    `json:"text"`
	Document *Document `json:"document"`
}

// Chat identifies where a message came from.
type Chat struct {
	ID int64 `json:"id"`
}

// Document is an attached file reference.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
}

// fileInfo is the getFile result; FilePath feeds the download endpoint.
type fileInfo struct {
	FilePath string `json:"file_path"`
}

// apiResponse is the envelope every Bot API method returns.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// GetUpdates long-polls for updates after offset, waiting up to timeout
// seconds server-side.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	params := url.Values{
		"offset":  {strconv.FormatInt(offset, 10)},
		"timeout": {strconv.Itoa(timeout)},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a plain-text message to the chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}
	return c.call(ctx, "sendMessage", params, nil)
}

// SendDocument uploads data as a named document to the chat.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("failed to write chat_id: %w", err)
	}
	part, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendDocument"), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendDocument failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, nil)
}

// Deliver implements backup.Channel.
func (c *Client) Deliver(ctx context.Context, dest int64, filename string, blob []byte) error {
	return c.SendDocument(ctx, dest, filename, blob)
}

// DownloadDocument fetches the content of an uploaded document.
func (c *Client) DownloadDocument(ctx context.Context, fileID string) ([]byte, error) {
	var info fileInfo
	params := url.Values{"file_id": {fileID}}
	if err := c.call(ctx, "getFile", params, &info); err != nil {
		return nil, err
	}

	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, info.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download failed: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// call invokes a Bot API method with form parameters and decodes the result
// into out (which may be nil).
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method),
		bytes.NewBufferString(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, out)
}

func decodeAPIResponse(r io.Reader, out any) error {
	var envelope apiResponse
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram api error: %s", envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}
	return nil
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}
