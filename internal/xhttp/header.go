package xhttp

import (
	"io"
	"net/http"
)

const (
	Authorization = "Authorization"
	Accept        = "Accept"
	ContentType   = "Content-Type"
	UserAgent     = "User-Agent"
)

const (
	applicationJSON = "application/json"
	textHTML        = "text/html"
)

func SetRequestHeaderBearer(req *http.Request, accessToken string) {
	req.Header.Set(Authorization, "Bearer "+accessToken)
}

func SetRequestHeaderAcceptJSON(req *http.Request) {
	req.Header.Set(Accept, applicationJSON)
}

func SetRequestHeaderContentTypeJSON(req *http.Request) {
	req.Header.Set(ContentType, applicationJSON)
}

func SetHeaderContentTypeTextHTML(w http.ResponseWriter) {
	w.Header().Set(ContentType, textHTML)
}

// DrainAndClose discards the rest of the body so the connection can be reused.
func DrainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
