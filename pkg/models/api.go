package models

// ErrorResponse is the JSON error envelope used by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Auth API types
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Card API types
type ClaimCardRequest struct {
	Code string `json:"code"`
}

type ClaimCardResponse struct {
	Code   string `json:"code"`
	Handle string `json:"handle"`
}

// Admin API types
type GenerateCardsRequest struct {
	Count      int `json:"count"`
	CodeLength int `json:"codeLength"`
}

type GenerateCardsResponse struct {
	Success    bool     `json:"success"`
	Count      int      `json:"count"`
	CodeLength int      `json:"code_length"`
	Codes      []string `json:"codes"`
}

type ListCardsResponse struct {
	Cards []Card `json:"cards"`
}

// ConfirmedActionRequest carries the re-auth password required for
// destructive admin actions (unclaim, delete, NFC unassign).
type ConfirmedActionRequest struct {
	Password string `json:"password"`
}

type SetNfcTagRequest struct {
	Assigned bool   `json:"assigned"`
	Password string `json:"password,omitempty"`
}

type UpdateSettingsRequest struct {
	RegistrationEnabled bool `json:"registration_enabled"`
}

// Profile API types
type UpdateProfileRequest struct {
	Handle      string  `json:"handle"`
	DisplayName *string `json:"display_name"`
	Title       *string `json:"title"`
	Phone       *string `json:"phone"`
	CountryCode *string `json:"country_code"`
	Email       *string `json:"email"`
	Website     *string `json:"website"`
	Searchable  bool    `json:"searchable"`
	ShowQRCode  bool    `json:"show_qr_code"`

	Linkedin  *string `json:"linkedin"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	Facebook  *string `json:"facebook"`
	Tiktok    *string `json:"tiktok"`
	Youtube   *string `json:"youtube"`
	Github    *string `json:"github"`

	OfficeAddress *string `json:"office_address"`
	OfficeCity    *string `json:"office_city"`
	MapsLink      *string `json:"maps_link"`

	BestTimeToContact      *string `json:"best_time_to_contact"`
	PreferredContactMethod *string `json:"preferred_contact_method"`

	Department *string `json:"department"`
	TeamName   *string `json:"team_name"`
	Manager    *string `json:"manager"`

	Pronouns          *string `json:"pronouns"`
	NamePronunciation *string `json:"name_pronunciation"`
	Bio               *string `json:"bio"`

	Whatsapp *string `json:"whatsapp"`
	Signal   *string `json:"signal"`
	Telegram *string `json:"telegram"`
	SmsLink  *string `json:"sms_link"`

	CalendarLink *string `json:"calendar_link"`
	Timezone     *string `json:"timezone"`

	PodcastLink    *string `json:"podcast_link"`
	YoutubeChannel *string `json:"youtube_channel"`
	SermonSeries   *string `json:"sermon_series"`
	FeaturedTalk   *string `json:"featured_talk"`

	CompanyName   *string `json:"company_name"`
	Division      *string `json:"division"`
	OfficePhone   *string `json:"office_phone"`
	WorkPhone     *string `json:"work_phone"`
	PersonalPhone *string `json:"personal_phone"`

	PrimaryCtaType  *string `json:"primary_cta_type"`
	PrimaryCtaValue *string `json:"primary_cta_value"`
}

type UploadImageResponse struct {
	URL string `json:"url"`
}

type DeleteAccountResponse struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}
