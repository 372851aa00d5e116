package domain

import "time"

const (
	// SlotCount is the number of question slots assigned to every user.
	SlotCount = 10
	// ChoiceCount is the number of choices a question offers.
	ChoiceCount = 5

	XPCorrect     = 50
	XPCorrectLate = 45
	XPIncorrect   = -10

	// XPPerLevel is the XP needed to climb one level in the individual ranking.
	XPPerLevel = 100
)

// CampaignConfig is the single active campaign schedule.
type CampaignConfig struct {
	ID           int64     `json:"id"`
	StartDate    time.Time `json:"startDate"`
	DurationDays int       `json:"durationDays"`
	Active       bool      `json:"active"`
	// CurrentDay is advanced by the daily tick. Nil means it must be derived from StartDate.
	CurrentDay *int      `json:"currentDay,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EndDate is the first calendar day after the campaign.
func (c CampaignConfig) EndDate() time.Time {
	return c.StartDate.AddDate(0, 0, c.DurationDays)
}

// Slot binds one campaign day to a question.
type Slot struct {
	QuestionID *int64 `json:"questionId,omitempty"`
	Answered   bool   `json:"answered"`
}

// User is a student with pre-assigned question slots.
type User struct {
	ID             int64           `json:"id"`
	Login          string          `json:"login"`
	Class          string          `json:"class"`
	School         string          `json:"school"`
	XP             int             `json:"xp"`
	ErrorCount     int             `json:"errorCount"`
	IncorrectCount int             `json:"incorrectCount"`
	LateCount      int             `json:"lateCount"`
	Slots          [SlotCount]Slot `json:"slots"`
	LastResponseAt *time.Time      `json:"lastResponseAt,omitempty"`
}

// Slot returns the 1-based slot n.
func (u *User) Slot(n int) *Slot {
	if n < 1 || n > SlotCount {
		return nil
	}
	return &u.Slots[n-1]
}

// SlotFor returns the 1-based slot number holding questionID, or 0.
func (u *User) SlotFor(questionID int64) int {
	for i, s := range u.Slots {
		if s.QuestionID != nil && *s.QuestionID == questionID {
			return i + 1
		}
	}
	return 0
}

// AnsweredThrough counts answered slots among 1..min(day, SlotCount).
func (u *User) AnsweredThrough(day int) int {
	if day > SlotCount {
		day = SlotCount
	}
	n := 0
	for i := 0; i < day; i++ {
		if u.Slots[i].Answered {
			n++
		}
	}
	return n
}

// Question is an immutable multiple choice question. CorrectChoice is 1-based.
type Question struct {
	ID            int64               `json:"id"`
	Text          string              `json:"text"`
	Image         string              `json:"image,omitempty"`
	Hint          string              `json:"hint,omitempty"`
	Choices       [ChoiceCount]string `json:"choices"`
	CorrectChoice int                 `json:"correctChoice"`
}

// QuestionView is what a student sees; it never carries the correct choice.
type QuestionView struct {
	Day      int                 `json:"day"`
	ID       int64               `json:"id"`
	Text     string              `json:"text"`
	Image    string              `json:"image,omitempty"`
	Hint     string              `json:"hint,omitempty"`
	Choices  [ChoiceCount]string `json:"choices"`
	Answered bool                `json:"answered"`
}

// RequestMeta is opaque caller metadata forwarded to the audit sink.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AnswerSubmission models one answer from a client. ChoiceIndex is 0-based.
type AnswerSubmission struct {
	UserID      int64
	QuestionID  int64
	ChoiceIndex int
	Meta        RequestMeta
}

// AnswerResult summarizes the outcome of a scored submission.
type AnswerResult struct {
	QuestionID    int64   `json:"questionId"`
	Slot          int     `json:"slot"`
	IsCorrect     bool    `json:"isCorrect"`
	XPDelta       int     `json:"xpDelta"`
	IsLate        bool    `json:"isLate"`
	NextHint      *string `json:"nextHint"`
	CorrectChoice int     `json:"correctChoice"`
	TotalXP       int     `json:"totalXp"`
}

// AnswerUpdate is the per-user mutation applied atomically by a UserRepository.
// The update must be rejected with ErrAlreadyAnswered if the slot is already answered.
type AnswerUpdate struct {
	Slot         int
	XPDelta      int
	MarkAnswered bool
	Incorrect    bool
	Late         bool
	At           time.Time
}

// ClassAggregate is a derived per-class ranking row.
type ClassAggregate struct {
	Class              string  `json:"class"`
	School             string  `json:"school"`
	StudentCount       int     `json:"studentCount"`
	ActiveStudentCount int     `json:"activeStudentCount"`
	MeanXP             float64 `json:"meanXp"`
	ParticipationRate  float64 `json:"participationRate"`
	GlobalScore        int     `json:"globalScore"`
	Rank               int     `json:"rank"`
}

// ViolationCode classifies a security audit record.
type ViolationCode string

const (
	ViolationQuestionNotAssigned    ViolationCode = "QuestionNotAssigned"
	ViolationQuestionNotYetUnlocked ViolationCode = "QuestionNotYetUnlocked"
)

// SecurityViolation is one append-only audit record.
type SecurityViolation struct {
	UserID    int64         `json:"userId"`
	Code      ViolationCode `json:"violationCode"`
	Detail    string        `json:"detail"`
	IPAddress string        `json:"ipAddress"`
	UserAgent string        `json:"userAgent"`
	Timestamp time.Time     `json:"timestamp"`
}

// RankingSnapshot is a full class ranking computed for one campaign day.
type RankingSnapshot struct {
	Day       int              `json:"day"`
	Classes   []ClassAggregate `json:"classes"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// RosterEntry is one student line in a class roster.
type RosterEntry struct {
	UserID     int64  `json:"userId"`
	Login      string `json:"login"`
	XP         int    `json:"xp"`
	ErrorCount int    `json:"errorCount"`
	Answered   int    `json:"answered"`
	Position   int    `json:"position"`
}

// UserPosition is a student's place in the individual XP ranking.
type UserPosition struct {
	UserID     int64  `json:"userId"`
	Login      string `json:"login"`
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
	Position   int    `json:"position"`
	TotalUsers int    `json:"totalUsers"`
}

// ClassRoster lists the members of a class next to its ranking aggregate.
type ClassRoster struct {
	Class    ClassAggregate `json:"class"`
	Students []RosterEntry  `json:"students"`
}

// AvailableQuestions lists the unanswered questions a user may answer today.
type AvailableQuestions struct {
	CurrentDay int            `json:"currentDay"`
	MaxDays    int            `json:"maxDays"`
	Questions  []QuestionView `json:"questions"`
	NextHint   *string        `json:"nextHint"`
	// NextDay and NextUnlockSeconds are zero once the last day is reached.
	NextDay           int `json:"nextDay,omitempty"`
	NextUnlockSeconds int `json:"nextUnlockSeconds,omitempty"`
}

// Progress summarizes a user's standing in the campaign.
type Progress struct {
	UserID     int64 `json:"userId"`
	CurrentDay int   `json:"currentDay"`
	Answered   int   `json:"answered"`
	TotalSlots int   `json:"totalSlots"`
	XP         int   `json:"xp"`
	ErrorCount int   `json:"errorCount"`
	LateCount  int   `json:"lateCount"`
	Level      int   `json:"level"`
}

// CampaignState is the coarse lifecycle phase reported to clients.
type CampaignState string

const (
	CampaignWaiting  CampaignState = "waiting"
	CampaignActive   CampaignState = "active"
	CampaignFinished CampaignState = "finished"
)

// CampaignStatus is the client-facing view of the active campaign.
type CampaignStatus struct {
	State         CampaignState `json:"state"`
	CurrentDay    int           `json:"currentDay"`
	DaysRemaining int           `json:"daysRemaining"`
	DurationDays  int           `json:"durationDays"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
}
