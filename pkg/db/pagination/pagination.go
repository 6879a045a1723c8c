package pagination

import (
	"encoding/base64"
	"encoding/json"
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=20"` // Min 1, Max 250
}

type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return 20
	}
	if p.PageSize > 250 {
		return 250
	}
	return p.PageSize
}

func EncodeCursor(data Cursor) string {
	b, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}

// BuildCursorPageInfo trims an overfetched result set (limit+1 rows) and
// reports whether another page exists.
func BuildCursorPageInfo[T any](data []*T, limit int, extractCursor func(*T) Cursor) ([]*T, PageInfo) {
	if len(data) == 0 {
		return data, PageInfo{}
	}

	hasMore := false
	if len(data) > limit {
		hasMore = true
		data = data[:limit]
	}

	info := PageInfo{HasMore: hasMore}
	if hasMore {
		info.NextPageToken = EncodeCursor(extractCursor(data[len(data)-1]))
	}
	return data, info
}
