package render

// StyleID is the fixed id of the page-level stylesheet.
const StyleID = "wol-widget-styles"

// Class names. Everything is prefixed to stay clear of host page styles.
const (
	ClassWidget        = "wol-widget"
	ClassThemePrefix   = "wol-theme-"
	ClassVariantPrefix = "wol-variant-"

	ClassGrid   = "wol-grid"
	ClassList   = "wol-list"
	ClassSingle = "wol-single"

	ClassCard          = "wol-card"
	ClassStars         = "wol-stars"
	ClassStar          = "wol-star"
	ClassStarFilled    = "wol-star-filled"
	ClassContent       = "wol-content"
	ClassAuthor        = "wol-author"
	ClassAvatar        = "wol-avatar"
	ClassAuthorInfo    = "wol-author-info"
	ClassAuthorName    = "wol-author-name"
	ClassAuthorCompany = "wol-author-company"

	ClassCarousel   = "wol-carousel"
	ClassViewport   = "wol-viewport"
	ClassTrack      = "wol-track"
	ClassSlide      = "wol-slide"
	ClassNav        = "wol-nav"
	ClassPrev       = "wol-prev"
	ClassNext       = "wol-next"
	ClassIndicators = "wol-indicators"
	ClassIndicator  = "wol-indicator"
	ClassActive     = "wol-active"

	ClassPlaceholder = "wol-placeholder"
	ClassUnavailable = "wol-unavailable"
	ClassEmpty       = "wol-empty"
)
