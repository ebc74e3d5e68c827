package client

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// API is a minimal client for the server's HTTP endpoints.
type API struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPI(baseURL, token string) *API {
	return &API{baseURL: baseURL, token: token, http: &http.Client{}}
}

// Session mirrors the server's session representation.
type Session struct {
	ID             string    `json:"id"`
	SenderUserID   string    `json:"sender_user_id"`
	ReceiverUserID string    `json:"receiver_user_id"`
	ReceiverAddr   string    `json:"receiver_ip"`
	FileName       string    `json:"file_name"`
	FileSize       int64     `json:"file_size"`
	FileType       string    `json:"file_type"`
	ChecksumSHA256 string    `json:"checksum_sha256"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type apiError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (a *API) do(method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequest(method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	return a.http.Do(req)
}

func decodeError(resp *http.Response) error {
	var e apiError
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Code == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return fmt.Errorf("%s: %s", e.Code, e.Detail)
}

func (a *API) doJSON(method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	resp, err := a.do(method, path, body, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Login exchanges credentials for an access token.
func (a *API) Login(email, password string) (string, bool, error) {
	var result struct {
		AccessToken        string `json:"access_token"`
		MustChangePassword bool   `json:"must_change_password"`
	}
	err := a.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return "", false, err
	}
	a.token = result.AccessToken
	return result.AccessToken, result.MustChangePassword, nil
}

// CreateSession declares a transfer. Exactly one of receiverID/receiverAddr
// must be set; the server validates that.
func (a *API) CreateSession(receiverID, receiverAddr, fileName string, fileSize int64, checksum string) (*Session, error) {
	var session Session
	err := a.doJSON(http.MethodPost, "/api/transfers/sessions", map[string]any{
		"receiver_user_id": receiverID,
		"receiver_ip":      receiverAddr,
		"file_name":        fileName,
		"file_size":        fileSize,
		"checksum_sha256":  checksum,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions fetches sessions the current user takes part in.
func (a *API) ListSessions(limit, offset int) ([]Session, error) {
	var sessions []Session
	path := fmt.Sprintf("/api/transfers/sessions?limit=%d&offset=%d", limit, offset)
	if err := a.doJSON(http.MethodGet, path, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Verb posts one of the lifecycle verbs (accept, reject, cancel).
func (a *API) Verb(sessionID, verb string) error {
	return a.doJSON(http.MethodPost, "/api/transfers/sessions/"+sessionID+"/"+verb, nil, nil)
}

// Upload streams filePath as the multipart payload of the session.
func (a *API) Upload(sessionID, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	resp, err := a.do(http.MethodPost, "/api/transfers/sessions/"+sessionID+"/upload", pr, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}

// Download fetches the artifact into destPath.
func (a *API) Download(sessionID, destPath string) error {
	resp, err := a.do(http.MethodGet, "/api/transfers/sessions/"+sessionID+"/download", nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, resp.Body)
	return err
}

// FileChecksum returns the size and lowercase hex SHA-256 of a file.
func FileChecksum(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	size, err := io.Copy(hasher, f)
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(hasher.Sum(nil)), nil
}
