package document

// Visibility is the access tier of a document.
//   - private: owner only
//   - public: any authenticated caller holding the id
//   - permanent: publicly listed, globally unique name and URL path
type Visibility string

const (
	VisibilityPrivate   Visibility = "private"
	VisibilityPublic    Visibility = "public"
	VisibilityPermanent Visibility = "permanent"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityPermanent:
		return true
	}
	return false
}

// Document is one entry inside a user's document map. Description, Path and
// Tags are only set for permanent visibility; the update core switches
// exhaustively on the Visibility tag.
type Document struct {
	Name        string     `bson:"name" json:"name"`
	Code        string     `bson:"code" json:"code"`
	CDate       string     `bson:"cdate" json:"cdate"`
	MDate       string     `bson:"mdate" json:"mdate"`
	Visibility  Visibility `bson:"visibility" json:"visibility"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Path        string     `bson:"path,omitempty" json:"path,omitempty"`
	Tags        []string   `bson:"tags,omitempty" json:"tags,omitempty"`
}

// Map is the value of one user's record in the docs collection: document id
// to document. The record is the unit of read; writes go through keyed
// partial updates of single entries.
type Map map[string]Document
