// Package view renders the HTML pages served by the handlers.
package view

// DefaultQuery is shown in the editor on first load.
const DefaultQuery = `{
  books {
    _id
    title
    author
    price
  }
}`

// PlaygroundSignals are the datastar signals bound by the playground page.
type PlaygroundSignals struct {
	Query     string `json:"query"`
	Variables string `json:"variables"`
	Token     string `json:"token"`
}
