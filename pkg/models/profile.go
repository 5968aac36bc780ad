package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserTypeRegular    = "user"
	UserTypeSuperAdmin = "super_admin"
)

// Profile is a user's public contact page. The ID is shared with the
// auth provider's user ID; at most one profile exists per user.
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Handle      string    `json:"handle" db:"handle"`
	DisplayName *string   `json:"display_name,omitempty" db:"display_name"`
	Title       *string   `json:"title,omitempty" db:"title"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	CountryCode *string   `json:"country_code,omitempty" db:"country_code"`
	Email       *string   `json:"email,omitempty" db:"email"`
	Website     *string   `json:"website,omitempty" db:"website"`
	AvatarURL   *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	QRCodeURL   *string   `json:"qr_code_url,omitempty" db:"qr_code_url"`
	UserType    string    `json:"user_type" db:"user_type"`
	Searchable  bool      `json:"searchable" db:"searchable"`
	ShowQRCode  bool      `json:"show_qr_code" db:"show_qr_code"`

	// Social links
	Linkedin  *string `json:"linkedin,omitempty" db:"linkedin"`
	Twitter   *string `json:"twitter,omitempty" db:"twitter"`
	Instagram *string `json:"instagram,omitempty" db:"instagram"`
	Facebook  *string `json:"facebook,omitempty" db:"facebook"`
	Tiktok    *string `json:"tiktok,omitempty" db:"tiktok"`
	Youtube   *string `json:"youtube,omitempty" db:"youtube"`
	Github    *string `json:"github,omitempty" db:"github"`

	// Location / office
	OfficeAddress *string `json:"office_address,omitempty" db:"office_address"`
	OfficeCity    *string `json:"office_city,omitempty" db:"office_city"`
	MapsLink      *string `json:"maps_link,omitempty" db:"maps_link"`

	// Availability / contact preference
	BestTimeToContact      *string `json:"best_time_to_contact,omitempty" db:"best_time_to_contact"`
	PreferredContactMethod *string `json:"preferred_contact_method,omitempty" db:"preferred_contact_method"`

	// Department / team
	Department *string `json:"department,omitempty" db:"department"`
	TeamName   *string `json:"team_name,omitempty" db:"team_name"`
	Manager    *string `json:"manager,omitempty" db:"manager"`

	Pronouns          *string `json:"pronouns,omitempty" db:"pronouns"`
	NamePronunciation *string `json:"name_pronunciation,omitempty" db:"name_pronunciation"`
	Bio               *string `json:"bio,omitempty" db:"bio"`

	// Messaging links
	Whatsapp *string `json:"whatsapp,omitempty" db:"whatsapp"`
	Signal   *string `json:"signal,omitempty" db:"signal"`
	Telegram *string `json:"telegram,omitempty" db:"telegram"`
	SmsLink  *string `json:"sms_link,omitempty" db:"sms_link"`

	// Calendar scheduling
	CalendarLink *string `json:"calendar_link,omitempty" db:"calendar_link"`
	Timezone     *string `json:"timezone,omitempty" db:"timezone"`

	// Media / content
	PodcastLink    *string `json:"podcast_link,omitempty" db:"podcast_link"`
	YoutubeChannel *string `json:"youtube_channel,omitempty" db:"youtube_channel"`
	SermonSeries   *string `json:"sermon_series,omitempty" db:"sermon_series"`
	FeaturedTalk   *string `json:"featured_talk,omitempty" db:"featured_talk"`

	// Organization details
	CompanyName   *string `json:"company_name,omitempty" db:"company_name"`
	Division      *string `json:"division,omitempty" db:"division"`
	OfficePhone   *string `json:"office_phone,omitempty" db:"office_phone"`
	WorkPhone     *string `json:"work_phone,omitempty" db:"work_phone"`
	PersonalPhone *string `json:"personal_phone,omitempty" db:"personal_phone"`

	// Primary call-to-action shown on the public page
	PrimaryCtaType  *string `json:"primary_cta_type,omitempty" db:"primary_cta_type"`
	PrimaryCtaValue *string `json:"primary_cta_value,omitempty" db:"primary_cta_value"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsSuperAdmin reports whether the profile may use the admin API.
func (p *Profile) IsSuperAdmin() bool {
	return p.UserType == UserTypeSuperAdmin
}
