package source

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// plainText strips markup from an HTML fragment and collapses whitespace.
func plainText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// containsAny reports whether text contains any of the substrings.
func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// article is the normalized view of an RSS or Atom item.
type article struct {
	Title       string
	Description string
	Link        string
	Published   time.Time

	// text is the lower-cased title and description used for keyword rules.
	text string
}

func newArticle(item *gofeed.Item) (article, bool) {
	if item == nil {
		return article{}, false
	}
	title := plainText(item.Title)
	if title == "" {
		return article{}, false
	}
	desc := item.Description
	if desc == "" {
		desc = item.Content
	}
	desc = plainText(desc)

	a := article{
		Title:       title,
		Description: desc,
		Link:        item.Link,
		text:        strings.ToLower(title + " " + desc),
	}
	switch {
	case item.PublishedParsed != nil:
		a.Published = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		a.Published = item.UpdatedParsed.UTC()
	}
	if a.Link == "" && len(item.Links) > 0 {
		a.Link = item.Links[0]
	}
	return a, true
}
