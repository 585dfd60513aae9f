package model

type Community struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	CoverURL    string `gorm:"size:255" json:"coverUrl"`
	MemberCount int    `gorm:"default:0" json:"memberCount"`
}

func (Community) TableName() string {
	return "communities"
}

type PostType string

const (
	PostDiscussion PostType = "discussion"
	PostQuestion   PostType = "question"
	PostShowcase   PostType = "showcase"
)

type Post struct {
	UUIDBase
	CommunityID uint     `gorm:"index;type:bigint unsigned" json:"communityId"`
	AuthorID    uint     `gorm:"index;type:bigint unsigned" json:"authorId"`
	Author      User     `gorm:"foreignKey:AuthorID" json:"author"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Content     string   `gorm:"type:text;not null" json:"content"`
	Type        PostType `gorm:"size:20;default:'discussion'" json:"type"`
	Tags        string   `gorm:"size:255" json:"tags"`
	Upvotes     int      `gorm:"default:0" json:"upvotes"`
	Views       int      `gorm:"default:0" json:"views"`
	IsPinned    bool     `gorm:"default:false" json:"isPinned"`
}

func (Post) TableName() string {
	return "posts"
}
