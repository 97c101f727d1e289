package paginator

import (
	"strconv"
	"strings"
)

// Page описывает одну страницу выдачи из Count элементов по PerPage на странице
type Page struct {
	Number   int
	NumPages int
	PerPage  int
	Count    int
}

// GetPage разбирает номер страницы из строки запроса. Не число - первая
// страница, номер вне диапазона - последняя. Пустая выдача состоит из одной
// пустой страницы.
func GetPage(raw string, count, perPage int) Page {
	if perPage <= 0 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}

	numPages := (count + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}

	number, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		number = 1
	case number < 1 || number > numPages:
		number = numPages
	}

	return Page{
		Number:   number,
		NumPages: numPages,
		PerPage:  perPage,
		Count:    count,
	}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) Limit() int {
	return p.PerPage
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasOtherPages() bool {
	return p.HasPrevious() || p.HasNext()
}

func (p Page) PreviousPageNumber() int {
	return p.Number - 1
}

func (p Page) NextPageNumber() int {
	return p.Number + 1
}
