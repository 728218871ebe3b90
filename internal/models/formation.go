package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Certification says whether a formation leads to a certificate
type Certification string

const (
	CertificationCertifying    Certification = "Certifiante"
	CertificationNonCertifying Certification = "Non certifiante"
)

func (c Certification) IsValid() bool {
	return c == CertificationCertifying || c == CertificationNonCertifying
}

// Language is the teaching language of a formation
type Language string

const (
	LanguageFrench  Language = "Français"
	LanguageArabic  Language = "Arabe"
	LanguageEnglish Language = "Anglais"
)

func (l Language) IsValid() bool {
	return l == LanguageFrench || l == LanguageArabic || l == LanguageEnglish
}

// Level is the optional difficulty of a formation
type Level string

const (
	LevelBeginner     Level = "Débutant"
	LevelIntermediate Level = "Intermédiaire"
	LevelAdvanced     Level = "Avancé"
)

func (l Level) IsValid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// DefaultParticipants is used when a formation is saved without a participant range
const DefaultParticipants = "8-15"

// iconKeys is the catalog of icons the front end knows how to render
var iconKeys = map[string]struct{}{}

func init() {
	for _, key := range []string{
		"BarChart3", "GraduationCap", "Users", "TrendingUp",
		"Briefcase", "ClipboardList", "UserCog", "Workflow", "Target", "RefreshCw", "Building2", "Users2",
		"FileText", "Scale", "FileSearch", "BookOpen", "ClipboardCheck", "Sparkles", "Brain", "UserSquare2",
		"UsersRound", "Handshake", "HeartHandshake", "Languages", "Laptop", "Kanban", "Megaphone", "Mic",
		"AlertTriangle", "BadgeCheck", "Timer", "Lightbulb", "Flame", "Globe", "Share2", "Rocket", "MessageSquare",
		"ListOrdered", "Presentation", "Globe2", "Leaf", "Medal", "ShieldPlus", "Bolt", "Utensils", "FileBadge2",
		"CheckCheck", "LineChart", "CalendarRange", "Cog", "Activity", "Wrench", "Hammer", "Microscope",
		"FlaskConical", "Files", "Sigma", "Ruler", "ShieldAlert",
	} {
		iconKeys[key] = struct{}{}
	}
}

// IsValidIconKey reports whether key belongs to the icon catalog
func IsValidIconKey(key string) bool {
	_, ok := iconKeys[key]
	return ok
}

var (
	participantsPattern = regexp.MustCompile(`^\d+-\d+$`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// IsValidParticipants checks a "min-max" participant range such as "8-15"
func IsValidParticipants(value string) bool {
	return participantsPattern.MatchString(value)
}

// Formation is a course catalog entry
type Formation struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Category      string        `json:"category"`
	Certification Certification `json:"certification"`
	Participants  string        `json:"participants"`
	Level         *Level        `json:"level"`
	Description   string        `json:"description"`
	Objectives    []string      `json:"objectives"`
	IconKey       string        `json:"iconKey"`
	Language      Language      `json:"language"`
	Popular       bool          `json:"popular"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	DeletedAt     *time.Time    `json:"-"`
	DeletedBy     *string       `json:"-"`
}

// FormationInput is the create/update payload of a formation.
// The front end sends iconKey, older clients icon_key.
type FormationInput struct {
	Title         string        `json:"title" binding:"required,min=3"`
	Category      string        `json:"category" binding:"required,min=2"`
	Certification Certification `json:"certification" binding:"required,certification"`
	Participants  string        `json:"participants" binding:"omitempty,participants"`
	Description   string        `json:"description" binding:"required,min=20"`
	Objectives    []string      `json:"objectives" binding:"required,min=1,dive,required,min=5"`
	IconKey       string        `json:"icon_key" binding:"required,icon_key"`
	IconKeyAlias  string        `json:"iconKey" binding:"-"`
	Language      Language      `json:"language" binding:"required,language"`
	Level         *Level        `json:"level" binding:"omitempty,level"`
	Popular       bool          `json:"popular"`
}

// Normalize prepares raw input for validation: icon alias, "8 - 15" style ranges, default range
func (in *FormationInput) Normalize() {
	if in.IconKey == "" && in.IconKeyAlias != "" {
		in.IconKey = in.IconKeyAlias
	}
	in.IconKeyAlias = ""

	in.Participants = whitespacePattern.ReplaceAllString(in.Participants, "")
	if in.Participants == "" {
		in.Participants = DefaultParticipants
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	for i, o := range in.Objectives {
		in.Objectives[i] = strings.TrimSpace(o)
	}

	if in.Level != nil && *in.Level == "" {
		in.Level = nil
	}
}

// ApplyTo copies the normalized input onto f
func (in *FormationInput) ApplyTo(f *Formation) {
	f.Title = in.Title
	f.Category = in.Category
	f.Certification = in.Certification
	f.Participants = in.Participants
	f.Level = in.Level
	f.Description = in.Description
	f.Objectives = append([]string(nil), in.Objectives...)
	f.IconKey = in.IconKey
	f.Language = in.Language
	f.Popular = in.Popular
}

// FormationFilter holds the public catalog filters
type FormationFilter struct {
	Search    string
	Category  string
	Language  string
	Objective string
	Popular   *bool
}

// FormationColumns is the column list expected by ScanFormation
const FormationColumns = `id, title, category, certification, participants, level, description,
	objectives, icon_key, language, popular, created_at, updated_at, deleted_at, deleted_by`

// ScanFormation scans a row selected with FormationColumns
func ScanFormation(row pgx.Row) (*Formation, error) {
	var f Formation
	var objectives []byte

	err := row.Scan(
		&f.ID,
		&f.Title,
		&f.Category,
		&f.Certification,
		&f.Participants,
		&f.Level,
		&f.Description,
		&objectives,
		&f.IconKey,
		&f.Language,
		&f.Popular,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.DeletedAt,
		&f.DeletedBy,
	)
	if err != nil {
		return nil, err
	}

	f.Objectives = []string{}
	if len(objectives) > 0 {
		if err := json.Unmarshal(objectives, &f.Objectives); err != nil {
			return nil, fmt.Errorf("failed to decode objectives: %w", err)
		}
	}

	return &f, nil
}
