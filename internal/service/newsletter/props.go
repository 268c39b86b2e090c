package newsletter

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/model"
)

const excerptRunes = 150

// RenderProps is the data the newsletter template renders.
type RenderProps struct {
	Author          string
	DetailLink      string
	Text            string
	Title           string
	UnsubscribeLink string
	Master          string
	Aggregate       Aggregate
}

type Aggregate struct {
	Owner      model.Owner
	Subscriber SubscriberInfo
	Post       PostInfo
}

type SubscriberInfo struct {
	Email     string
	Subscribe int
}

type PostInfo struct {
	ID      int64
	Title   string
	Text    string
	Created string
}

func defaultProps(owner model.Owner) RenderProps {
	return RenderProps{
		Author:    owner.Name,
		Master:    owner.Name,
		Title:     "New content",
		Aggregate: Aggregate{Owner: owner},
	}
}

// excerpt keeps the first 150 runes and always appends an ellipsis.
func excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptRunes {
		return text + "..."
	}
	runes := []rune(text)
	return string(runes[:excerptRunes]) + "..."
}

// DetailLink is the public URL of a published item.
func DetailLink(webURL string, c model.Content) string {
	base := strings.TrimRight(webURL, "/")
	if c.Kind == domain.ContentKindNote {
		return base + "/notes/" + strconv.FormatInt(c.Nid, 10)
	}
	return base + "/posts/" + url.PathEscape(c.Category) + "/" + url.PathEscape(c.Slug)
}

func (p *Pipeline) props(defaults RenderProps, c model.Content, email string, subscribe int, unsubscribeLink string) RenderProps {
	props := defaults
	props.DetailLink = DetailLink(p.cfg.WebURL, c)
	props.Text = excerpt(c.Text)
	props.Title = c.Title
	props.UnsubscribeLink = unsubscribeLink
	props.Aggregate.Subscriber = SubscriberInfo{Email: email, Subscribe: subscribe}
	props.Aggregate.Post = PostInfo{
		ID:      c.ID,
		Title:   c.Title,
		Text:    c.Text,
		Created: c.CreatedAt.UTC().Format(time.RFC3339),
	}
	return props
}
