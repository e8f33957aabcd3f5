package musicbrainz

// ArtistCredit is one entry of a release group's credit list.
//
// Name is the credited name, which may differ from Artist.Name when the credit uses an alias.
type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
}

// Alias is an alternate name for an entity.
type Alias struct {
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
	Locale   string `json:"locale"`
	Type     string `json:"type"`
	Primary  bool   `json:"primary"`
}

// ReleaseGroup is a raw release group as returned by the browse endpoint.
type ReleaseGroup struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	PrimaryType      string         `json:"primary-type"`
	SecondaryTypes   []string       `json:"secondary-types"`
	FirstReleaseDate string         `json:"first-release-date"`
	ArtistCredit     []ArtistCredit `json:"artist-credit"`
	Aliases          []Alias        `json:"aliases"`
}

// ReleaseGroupPage is one page of the release-group browse endpoint.
type ReleaseGroupPage struct {
	Count         int            `json:"release-group-count"`
	Offset        int            `json:"release-group-offset"`
	ReleaseGroups []ReleaseGroup `json:"release-groups"`
}

// Artist is a looked up artist.
type Artist struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	SortName       string     `json:"sort-name"`
	Type           string     `json:"type"`
	Country        string     `json:"country"`
	Disambiguation string     `json:"disambiguation"`
	Score          int        `json:"score"`
	Aliases        []Alias    `json:"aliases"`
	Relations      []Relation `json:"relations"`
}

// Relation is a url relationship returned with inc=url-rels.
type Relation struct {
	Type string `json:"type"`
	URL  struct {
		ID       string `json:"id"`
		Resource string `json:"resource"`
	} `json:"url"`
}

// SearchResponse is the body of an artist search.
type SearchResponse struct {
	Count   int      `json:"count"`
	Offset  int      `json:"offset"`
	Artists []Artist `json:"artists"`
}
