// Package client is a typed HTTP client for the lending API, used by the
// lendctl command line tool and by anything else that wants to drive the
// service from Go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/otherscovers/otherscovers/internal/models"
)

// APIError is returned for any non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to one lending API server, optionally authenticated with a
// bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given base URL. An empty token limits the
// client to the public endpoints.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/users/register", map[string]string{
		"username": username,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and returns a bearer token. The token is also stored
// on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/users/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// SearchGames searches the game catalog by title.
func (c *Client) SearchGames(ctx context.Context, title string) ([]models.Game, error) {
	games := []models.Game{}
	path := "/games/search?title=" + url.QueryEscape(title)
	if err := c.do(ctx, http.MethodGet, path, nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// LendGame adds a game to the caller's lending library and returns the
// updated reference list (hex IDs).
func (c *Client) LendGame(ctx context.Context, gameID string) ([]string, error) {
	ids := []string{}
	err := c.do(ctx, http.MethodPost, "/games/lend", map[string]string{"gameId": gameID}, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// RemoveGame removes a game from the caller's lending library and returns
// the resolved remaining games.
func (c *Client) RemoveGame(ctx context.Context, gameID string) ([]models.Game, error) {
	var out struct {
		Message             string        `json:"message"`
		LendingLibraryGames []models.Game `json:"lendingLibraryGames"`
	}
	path := "/games/remove-game/" + url.PathEscape(gameID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return out.LendingLibraryGames, nil
}

// MyLibraryGames returns the caller's lending library, resolved.
func (c *Client) MyLibraryGames(ctx context.Context) ([]models.Game, error) {
	games := []models.Game{}
	if err := c.do(ctx, http.MethodGet, "/games/my-library-games", nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// CommunityGames returns the games offered by other members of the caller's
// communities.
func (c *Client) CommunityGames(ctx context.Context) ([]models.Game, error) {
	games := []models.Game{}
	if err := c.do(ctx, http.MethodGet, "/games/gamesFromMyCommunities", nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// MyLibrary returns the books the caller is offering to lend.
func (c *Client) MyLibrary(ctx context.Context) ([]models.Book, error) {
	books := []models.Book{}
	if err := c.do(ctx, http.MethodGet, "/books/my-library", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// OfferBook offers a book for lending and returns the updated library.
func (c *Client) OfferBook(ctx context.Context, title, author, googleBooksID string) ([]models.Book, error) {
	books := []models.Book{}
	err := c.do(ctx, http.MethodPost, "/books/lend", map[string]string{
		"title":         title,
		"author":        author,
		"googleBooksId": googleBooksID,
	}, &books)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// DeleteOffer removes a book offer and returns the updated library.
func (c *Client) DeleteOffer(ctx context.Context, bookID string) ([]models.Book, error) {
	var out struct {
		Message        string        `json:"message"`
		LendingLibrary []models.Book `json:"lendingLibrary"`
	}
	path := "/books/delete-offer/" + url.PathEscape(bookID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return out.LendingLibrary, nil
}
