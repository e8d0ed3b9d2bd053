package schema

// Request types used as built-in schemas. They carry go-playground/validator
// struct tags; field order decides the order failures are reported in.

// OutputRequest describes an SRT stream destination.
type OutputRequest struct {
	Host       string `json:"host" validate:"required,max=253,hostname|ip"`
	Port       int    `json:"port" validate:"required,gte=1,lte=65535"`
	StreamID   string `json:"stream_id" validate:"omitempty,max=256"`
	Codec      string `json:"codec" validate:"omitempty,oneof=wav mp3 mp2 ogg"`
	MaxRetries int    `json:"max_retries" validate:"omitempty,gte=0,lte=9999"`
}

// RecorderRequest describes a recording destination.
type RecorderRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	RotationMode  string `json:"rotation_mode" validate:"required,oneof=hourly ondemand"`
	StorageMode   string `json:"storage_mode" validate:"required,oneof=local s3 both"`
	LocalPath     string `json:"local_path" validate:"required_without=S3Bucket,max=4096"`
	S3Bucket      string `json:"s3_bucket" validate:"omitempty,min=3,max=63"`
	RetentionDays int    `json:"retention_days" validate:"omitempty,gte=1,lte=3650"`
}

// WebhookRequest describes a notification webhook.
type WebhookRequest struct {
	URL    string   `json:"url" validate:"required,url,max=2048"`
	Events []string `json:"events" validate:"omitempty,max=8,unique,dive,oneof=started stopped error"`
}

// SignupRequest describes an account sign-up form.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Age      int    `json:"age" validate:"required,gte=13,lte=130"`
	Website  string `json:"website" validate:"omitempty,url"`
}

// Builtin returns a registry holding the built-in schemas.
func Builtin() *Registry {
	r := NewRegistry()
	for _, s := range []Schema{
		{Name: "output", Description: "SRT stream destination", New: func() any { return &OutputRequest{} }},
		{Name: "recorder", Description: "Recording destination", New: func() any { return &RecorderRequest{} }},
		{Name: "webhook", Description: "Notification webhook", New: func() any { return &WebhookRequest{} }},
		{Name: "signup", Description: "Account sign-up form", New: func() any { return &SignupRequest{} }},
	} {
		// Names are fixed above and cannot collide.
		_ = r.Register(s)
	}
	return r
}
