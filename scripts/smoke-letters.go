// Smoke test for a locally running server. Because login goes through the
// Google consent screen, it needs a real session token: log in through the
// browser, copy the "token" cookie, and run
//
//	TOKEN=<cookie value> go run scripts/smoke-letters.go
//
// It walks a letter through create, list, update, save-to-drive and delete.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:5000/api"

type Letter struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	DriveFileID string `json:"driveFileId"`
}

func request(token, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s %s failed (%d): %s", method, path, resp.StatusCode, string(raw))
	}
	return raw, nil
}

func main() {
	token := os.Getenv("TOKEN")
	if token == "" {
		fmt.Println("TOKEN environment variable is required (session cookie value)")
		os.Exit(1)
	}

	title := fmt.Sprintf("Smoke test %d", time.Now().Unix())

	raw, err := request(token, "POST", "/letters/", map[string]string{
		"title":   title,
		"content": "Written by the smoke test.",
	})
	if err != nil {
		fmt.Println("create:", err)
		os.Exit(1)
	}
	var letter Letter
	if err := json.Unmarshal(raw, &letter); err != nil {
		fmt.Println("create decode:", err)
		os.Exit(1)
	}
	fmt.Printf("created letter %s (%q)\n", letter.ID, letter.Title)

	if raw, err = request(token, "GET", "/letters/", nil); err != nil {
		fmt.Println("list:", err)
		os.Exit(1)
	}
	var listing []Letter
	if err := json.Unmarshal(raw, &listing); err != nil {
		fmt.Println("list decode:", err)
		os.Exit(1)
	}
	fmt.Printf("listed %d letters\n", len(listing))

	if _, err = request(token, "PUT", "/letters/"+letter.ID, map[string]string{
		"title":   title,
		"content": "Updated by the smoke test.",
	}); err != nil {
		fmt.Println("update:", err)
		os.Exit(1)
	}
	fmt.Println("updated letter")

	if raw, err = request(token, "POST", "/letters/"+letter.ID+"/save-to-drive", nil); err != nil {
		fmt.Println("save-to-drive:", err)
		os.Exit(1)
	}
	var saved struct {
		DriveFileID string `json:"driveFileId"`
	}
	if err := json.Unmarshal(raw, &saved); err != nil {
		fmt.Println("save decode:", err)
		os.Exit(1)
	}
	fmt.Printf("synced to drive file %s\n", saved.DriveFileID)

	// Sync again: the drive file id must not change.
	if raw, err = request(token, "POST", "/letters/"+letter.ID+"/save-to-drive", nil); err != nil {
		fmt.Println("second save-to-drive:", err)
		os.Exit(1)
	}
	var second struct {
		DriveFileID string `json:"driveFileId"`
	}
	_ = json.Unmarshal(raw, &second)
	if second.DriveFileID != saved.DriveFileID {
		fmt.Printf("expected stable drive file id, got %s then %s\n", saved.DriveFileID, second.DriveFileID)
		os.Exit(1)
	}
	fmt.Println("second sync reused the same drive file")

	if _, err = request(token, "DELETE", "/letters/"+letter.ID, nil); err != nil {
		fmt.Println("delete:", err)
		os.Exit(1)
	}
	fmt.Println("deleted letter")

	fmt.Println("smoke test passed")
}
