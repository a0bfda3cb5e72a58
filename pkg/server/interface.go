/*
Package server implements msgpack IPC for a headless completion popup.

The server drives one document and at most one completion session at a time.
Clients write a stream of msgpack encoded requests to stdin and read one
response per request from stdout. Each request has an ID, echoed back, and an
op naming what to do.

# IPC

Open a session over a document with inline items or a catalog list:

	{"id": "1", "op": "open", "txt": "fn main() { pr }", "cur": 14, "lang": "source.rust", "start": 12, "cat": "rust"}

Edit the document the way an editor would, and the session re-filters:

	{"id": "2", "op": "type", "txt": "i"}
	{"id": "3", "op": "backspace"}

Send keys to the popup. Escape is not handled by the popup itself; the server,
acting as the editor, closes the session:

	{"id": "4", "op": "key", "k": "tab"}
	{"id": "5", "op": "key", "k": "enter"}

Draw the popup onto a virtual screen and read it back line by line:

	{"id": "6", "op": "render", "w": 80, "h": 24}

Every response carries the document, cursor, session state and visible menu:

	{"id": "4", "status": "ok", "txt": "fn main() { println!() }", "cur": 22, "st": "active", "rows": [...], "sel": 0, "con": true, "t": 41}

Other ops: undo, redo, close, catalogs, health. Errors set status to "error"
and carry a message and an HTTP-like code.
*/
package server

import "github.com/bastiangx/wordpop/pkg/catalog"

// Error codes carried in Response.Code.
const (
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeEditFailed = 422
	CodeInternal   = 500
)

// Request is one client message.
type Request struct {
	ID string `msgpack:"id"`
	Op string `msgpack:"op"`

	// open: document text; type: text to insert at the cursor.
	Text     string `msgpack:"txt,omitempty"`
	Cursor   int    `msgpack:"cur,omitempty"`
	Language string `msgpack:"lang,omitempty"`
	// Start and Trigger default to the cursor.
	Start    *int           `msgpack:"start,omitempty"`
	Trigger  *int           `msgpack:"trig,omitempty"`
	Encoding string         `msgpack:"enc,omitempty"`
	Items    []catalog.Item `msgpack:"items,omitempty"`
	// Catalog names a loaded list; with neither Items nor Catalog the list
	// matching the document language is used.
	Catalog string `msgpack:"cat,omitempty"`

	Key string `msgpack:"k,omitempty"`

	Width   int `msgpack:"w,omitempty"`
	Height  int `msgpack:"h,omitempty"`
	ViewTop int `msgpack:"top,omitempty"`
}

// Row is one visible menu row.
type Row struct {
	Label string `msgpack:"l"`
	Tag   string `msgpack:"t,omitempty"`
}

// Rect is a screen area relative to the viewport.
type Rect struct {
	X      int `msgpack:"x"`
	Y      int `msgpack:"y"`
	Width  int `msgpack:"w"`
	Height int `msgpack:"h"`
}

// Response answers one Request.
type Response struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"e,omitempty"`
	Code   int    `msgpack:"c,omitempty"`

	Text     string `msgpack:"txt,omitempty"`
	Cursor   int    `msgpack:"cur"`
	State    string `msgpack:"st,omitempty"`
	Empty    bool   `msgpack:"empty,omitempty"`
	Consumed bool   `msgpack:"con,omitempty"`
	Rows     []Row  `msgpack:"rows,omitempty"`
	Selected int    `msgpack:"sel"`

	Menu   *Rect    `msgpack:"menu,omitempty"`
	Docs   *Rect    `msgpack:"docs,omitempty"`
	Screen []string `msgpack:"scr,omitempty"`

	Catalogs  []string `msgpack:"cats,omitempty"`
	TimeTaken int64    `msgpack:"t"`
}
