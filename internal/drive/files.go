package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	docMimeType    = "application/vnd.google-apps.document"
	textMimeType   = "text/plain"
)

// fileResource mirrors the subset of the Drive v3 file resource we use.
type fileResource struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name,omitempty"`
	MimeType string   `json:"mimeType,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

type fileListResponse struct {
	Files []fileResource `json:"files"`
}

// FindFolder looks up a non-trashed folder by name and returns its id, or
// "" when no such folder exists.
func (c *Client) FindFolder(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), folderMimeType)
	endpoint := c.baseURL + "/files?" + url.Values{
		"q":      {q},
		"fields": {"files(id, name)"},
	}.Encode()

	resp, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var list fileListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("drive: decoding file list: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].ID, nil
}

// CreateFolder creates a folder in the user's Drive root and returns its id.
func (c *Client) CreateFolder(ctx context.Context, name string) (string, error) {
	c.logger.Info("creating drive folder", slog.String("name", name))

	body, err := json.Marshal(fileResource{Name: name, MimeType: folderMimeType})
	if err != nil {
		return "", err
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/files?fields=id", "application/json; charset=UTF-8", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return decodeFileID(resp)
}

// CreateFile uploads a new plain-text file into the given folder and
// returns the id Drive assigned to it.
func (c *Client) CreateFile(ctx context.Context, folderID, name, content string) (string, error) {
	c.logger.Info("creating drive file",
		slog.String("folder_id", folderID),
		slog.String("name", name),
	)

	metadata := fileResource{Name: name, MimeType: textMimeType, Parents: []string{folderID}}
	body, contentType, err := multipartBody(metadata, content)
	if err != nil {
		return "", err
	}

	endpoint := c.uploadURL + "/files?uploadType=multipart&fields=id"
	resp, err := c.do(ctx, http.MethodPost, endpoint, contentType, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return decodeFileID(resp)
}

// UpdateFile replaces the metadata and content of an existing file in place.
func (c *Client) UpdateFile(ctx context.Context, fileID, name, content string) error {
	c.logger.Info("updating drive file",
		slog.String("file_id", fileID),
		slog.String("name", name),
	)

	body, contentType, err := multipartBody(fileResource{Name: name}, content)
	if err != nil {
		return err
	}

	endpoint := c.uploadURL + "/files/" + url.PathEscape(fileID) + "?uploadType=multipart&fields=id"
	resp, err := c.do(ctx, http.MethodPatch, endpoint, contentType, body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// CopyAsDoc creates a Google Docs copy of the file in the given folder and
// returns the copy's id. The conversion happens server-side via the target
// mime type.
func (c *Client) CopyAsDoc(ctx context.Context, fileID, folderID, name string) (string, error) {
	c.logger.Info("copying drive file to docs format",
		slog.String("file_id", fileID),
		slog.String("name", name),
	)

	body, err := json.Marshal(fileResource{Name: name, MimeType: docMimeType, Parents: []string{folderID}})
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/files/" + url.PathEscape(fileID) + "/copy?fields=id"
	resp, err := c.do(ctx, http.MethodPost, endpoint, "application/json; charset=UTF-8", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return decodeFileID(resp)
}

// Delete removes a file permanently.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	c.logger.Info("deleting drive file", slog.String("file_id", fileID))

	resp, err := c.do(ctx, http.MethodDelete, c.baseURL+"/files/"+url.PathEscape(fileID), "", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func decodeFileID(resp *http.Response) (string, error) {
	var file fileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("drive: decoding file resource: %w", err)
	}
	return file.ID, nil
}

// multipartBody assembles a multipart/related upload: a JSON metadata part
// followed by the plain-text media part.
func multipartBody(metadata fileResource, content string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(meta); err != nil {
		return nil, "", err
	}

	header = textproto.MIMEHeader{}
	header.Set("Content-Type", textMimeType)
	part, err = w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), "multipart/related; boundary=" + w.Boundary(), nil
}

// escapeQuery escapes a value for interpolation into a Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
