package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Classroom is one course space owned by an admin. Learners join with the
// join code.
type Classroom struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;column:classroom_id" json:"classroom_id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	AdminID  uint      `gorm:"not null;index" json:"admin_id"`
	JoinCode string    `gorm:"size:5;uniqueIndex;not null" json:"join_code"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Classroom) TableName() string { return "classrooms" }

func (c *Classroom) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CourseSection groups slides and past questions inside a classroom.
type CourseSection struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:course_section_id" json:"course_section_id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index" json:"classroom_id"`
	CourseTitle string    `gorm:"size:150;not null" json:"course_title"`
	CourseCode  string    `gorm:"size:20" json:"course_code"`
	Difficulty  string    `gorm:"size:20" json:"difficulty,omitempty"`
	Description string    `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseSection) TableName() string { return "course_sections" }

func (s *CourseSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Slide is one uploaded deck. File storage is external; only the URL is kept.
type Slide struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:slide_id" json:"slide_id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index" json:"classroom_id"`
	SectionID   uuid.UUID `gorm:"type:uuid;not null;column:course_section_id;index" json:"course_section_id"`
	SlideName   string    `gorm:"size:150;not null" json:"slide_name"`
	SlideNumber int       `gorm:"not null" json:"slide_number"`
	FileURL     string    `json:"file_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Slide) TableName() string { return "slides" }

func (s *Slide) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Announcement is a classroom-wide post.
type Announcement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:announcement_id" json:"announcement_id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index" json:"classroom_id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Content     string    `gorm:"not null" json:"content"`
	Date        time.Time `gorm:"not null" json:"date"`

	CreatedAt time.Time `json:"created_at"`
}

func (Announcement) TableName() string { return "announcements" }

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// PastQuestion is an uploaded past-exam archive entry.
type PastQuestion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:past_question_id" json:"past_question_id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index" json:"classroom_id"`
	SectionID   uuid.UUID `gorm:"type:uuid;not null;column:course_section_id;index" json:"course_section_id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	FileURL     string    `json:"file_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (PastQuestion) TableName() string { return "past_questions" }

func (p *PastQuestion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ClassroomStudent is one enrollment row.
type ClassroomStudent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index:idx_enrollment,unique" json:"classroom_id"`
	StudentID   uint      `gorm:"not null;index:idx_enrollment,unique" json:"student_id"`
	JoinedAt    time.Time `gorm:"not null" json:"joined_at"`
}

func (ClassroomStudent) TableName() string { return "classroom_students" }
