package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/walloflove/wol-server/internal/color"
	"github.com/walloflove/wol-server/internal/dom"
	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/dto"
)

const maxStars = 5

// Initials returns up to two uppercase initials for an author name,
// or "?" when the name is blank.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "?"
	}
	return cases.Upper(language.Und).String(b.String())
}

// Card renders one testimonial. The structure is identical for every
// variant and theme; only the settings toggles remove parts.
func Card(t dto.Testimonial, s domain.WidgetSettings) *html.Node {
	card := dom.NewElement("div", ClassCard)

	if s.ShowRatings {
		dom.Append(card, stars(t.Rating))
	}

	quote := dom.NewElement("blockquote", ClassContent)
	dom.Append(quote, dom.Text("“"+t.Content+"”"))
	dom.Append(card, quote)

	author := dom.NewElement("div", ClassAuthor)
	if s.ShowAvatars {
		avatar := dom.NewElement("div", ClassAvatar)
		dom.SetAttr(avatar, "aria-hidden", "true")
		dom.SetAttr(avatar, "style", "background:"+color.ForName(t.AuthorName))
		dom.Append(avatar, dom.Text(Initials(t.AuthorName)))
		dom.Append(author, avatar)
	}

	info := dom.NewElement("div", ClassAuthorInfo)
	name := dom.NewElement("div", ClassAuthorName)
	dom.Append(name, dom.Text(t.AuthorName))
	dom.Append(info, name)

	if s.ShowCompany && t.AuthorCompany != "" {
		company := dom.NewElement("div", ClassAuthorCompany)
		dom.Append(company, dom.Text(t.AuthorCompany))
		dom.Append(info, company)
	}

	dom.Append(author, info)
	dom.Append(card, author)
	return card
}

func stars(rating int) *html.Node {
	rating = min(max(rating, 1), maxStars)

	row := dom.NewElement("div", ClassStars)
	dom.SetAttr(row, "role", "img")
	dom.SetAttr(row, "aria-label", fmt.Sprintf("Rated %d out of %d", rating, maxStars))
	for i := range maxStars {
		star := dom.NewElement("span", ClassStar)
		if i < rating {
			dom.AddClass(star, ClassStarFilled)
		}
		dom.Append(star, dom.Text("★"))
		dom.Append(row, star)
	}
	return row
}
