package profile

// Rendition is one stored avatar resolution.
type Rendition struct {
	ID     string `bson:"id" json:"id"`
	URL    string `bson:"url" json:"url"`
	Width  int    `bson:"w" json:"w"`
	Height int    `bson:"h" json:"h"`
	Ext    string `bson:"ext" json:"ext"`
}

// Avatar maps a size tag (xl, lg, md, sm, tn) to its rendition.
type Avatar map[string]Rendition

// Profile is one record of the users-profiles collection. DisplayName is
// nullable and globally unique when set.
type Profile struct {
	ID          string  `bson:"id" json:"id"`
	DisplayName *string `bson:"displayName" json:"displayName"`
	Bio         *string `bson:"bio" json:"bio"`
	BlogURL     *string `bson:"blogUrl" json:"blogUrl"`
	FBURL       *string `bson:"fbUrl" json:"fbUrl"`
	GithubURL   *string `bson:"githubUrl" json:"githubUrl"`
	TwitterURL  *string `bson:"twitterUrl" json:"twitterUrl"`
	LinkedInURL *string `bson:"linkedInUrl" json:"linkedInUrl"`
	Avatar      Avatar  `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CDate       string  `bson:"cdate" json:"cdate"`
	MDate       string  `bson:"mdate" json:"mdate"`
}

// Author is the public slice of a profile attached to shared document DTOs.
type Author struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	Avatar      Avatar  `json:"avatar,omitempty"`
}

// AsAuthor projects the profile onto its public author shape.
func (p *Profile) AsAuthor() *Author {
	if p == nil {
		return nil
	}
	return &Author{DisplayName: p.DisplayName, Bio: p.Bio, Avatar: p.Avatar}
}
