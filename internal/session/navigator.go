package session

import "parcelbee-client/internal/domain"

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(page domain.Page)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(page domain.Page)

// Navigate calls f(page).
func (f NavigatorFunc) Navigate(page domain.Page) { f(page) }
