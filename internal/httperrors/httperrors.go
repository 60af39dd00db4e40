package httperrors

import (
	"fmt"
	"net/http"
)

type content struct {
	status       int
	title        string
	statusString string
	header       string
	subHeader    string
}

var (
	content400 = content{
		http.StatusBadRequest,
		"Bad request (400)",
		"400",
		"The request could not be understood.",
		`<p>The request line is malformed.</p>`,
	}
	content404 = content{
		http.StatusNotFound,
		"The repository you're looking for could not be found (404)",
		"404",
		"The repository you're looking for could not be found.",
		`<p>The repository that you are attempting to access does not exist or is not configured.</p>
     <p>Make sure the address is correct.</p>`,
	}
	content414 = content{
		http.StatusRequestURITooLong,
		"Request URI too long (414)",
		"414",
		"Request URI too long.",
		`<p>The URI provided was too long for the server to process.</p>
     <p>Try to make the request URI shorter.</p>`,
	}
	content429 = content{
		http.StatusTooManyRequests,
		"Too many requests (429)",
		"429",
		"Too many requests.",
		`<p>The resource that you are attempting to access is being rate limited.</p>`,
	}
	content500 = content{
		http.StatusInternalServerError,
		"Something went wrong (500)",
		"500",
		"Whoops, something went wrong on our end.",
		`<p>Try again later.</p>
     <p>Please contact your administrator if this problem persists.</p>`,
	}
	content504 = content{
		http.StatusGatewayTimeout,
		"Repository resolution timed out (504)",
		"504",
		"The repository configuration could not be resolved in time.",
		`<p>Try again later.</p>
     <p>Please contact your administrator if this problem persists.</p>`,
	}

	contents = map[int]content{
		http.StatusBadRequest:          content400,
		http.StatusNotFound:            content404,
		http.StatusRequestURITooLong:   content414,
		http.StatusTooManyRequests:     content429,
		http.StatusInternalServerError: content500,
		http.StatusGatewayTimeout:      content504,
	}
)

const predefinedErrorPage = `
<!DOCTYPE html>
<html>
<head>
  <meta content="width=device-width, initial-scale=1, maximum-scale=1" name="viewport">
  <title>%v</title>
  <style>
    body {
      color: #666;
      text-align: center;
      font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
      margin: auto;
      font-size: 14px;
    }

    h1 {
      font-size: 56px;
      line-height: 100px;
      font-weight: 400;
      color: #456;
    }

    h3 {
      color: #456;
      font-size: 20px;
      font-weight: 400;
      line-height: 28px;
    }
  </style>
</head>

<body>
  <h1>
    %v
  </h1>
  <div class="container">
    <h3>%v</h3>
    <hr />
    %v
  </div>
</body>
</html>
`

func generateErrorHTML(c content) string {
	return fmt.Sprintf(predefinedErrorPage, c.title, c.statusString, c.header, c.subHeader)
}

func header() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")

	return h
}

// Page returns the headers and HTML body of the predefined error page for
// status. ok is false when there is no page for that status.
func Page(status int) (h http.Header, body []byte, ok bool) {
	c, ok := contents[status]
	if !ok {
		return nil, nil, false
	}

	return header(), []byte(generateErrorHTML(c) + "\n"), true
}

func serveErrorPage(w http.ResponseWriter, c content) {
	for key, values := range header() {
		w.Header()[key] = values
	}
	w.WriteHeader(c.status)
	fmt.Fprintln(w, generateErrorHTML(c))
}

// Serve414 returns a 414 error response / HTML page to the http.ResponseWriter
func Serve414(w http.ResponseWriter) {
	serveErrorPage(w, content414)
}

// Serve429 returns a 429 error response / HTML page to the http.ResponseWriter
func Serve429(w http.ResponseWriter) {
	serveErrorPage(w, content429)
}

// Serve500 returns a 500 error response / HTML page to the http.ResponseWriter
func Serve500(w http.ResponseWriter) {
	serveErrorPage(w, content500)
}
