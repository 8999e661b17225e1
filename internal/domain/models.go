package domain

type Audience string

const (
	AudienceInternal   Audience = "internal"
	AudienceCustomer   Audience = "customer"
	AudienceMeetup     Audience = "meetup"
	AudienceConference Audience = "conference"
)

type Tone string

const (
	ToneCasual   Tone = "casual"
	TonePolite   Tone = "polite"
	ToneSales    Tone = "sales"
	ToneAcademic Tone = "academic"
)

type Language string

const (
	LanguageJapanese Language = "ja"
	LanguageEnglish  Language = "en"
)

// Style axes range from -2 to +2.
type Style struct {
	Brevity int `json:"brevity"`
	Energy  int `json:"energy"`
	Pace    int `json:"pace"`
}

type Settings struct {
	TotalSeconds    int      `json:"totalSeconds"`
	QABufferSeconds int      `json:"qaBufferSeconds"`
	Audience        Audience `json:"audience"`
	Tone            Tone     `json:"tone"`
	Style           Style    `json:"style"`
	Language        Language `json:"language"`
}

// AvailableSeconds is the speaking time left once the Q&A buffer is reserved.
func (s Settings) AvailableSeconds() int {
	return s.TotalSeconds - s.QABufferSeconds
}

type Stats struct {
	SlideCount       int `json:"slideCount"`
	AllocatedSeconds int `json:"allocatedSeconds"`
	OverBySeconds    int `json:"overBySeconds"`
}

type Source struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

type Project struct {
	ID       string   `json:"projectId"`
	Title    string   `json:"title"`
	Source   *Source  `json:"source,omitempty"`
	Settings Settings `json:"settings"`
	Stats    Stats    `json:"stats"`
	// Unix seconds.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

type Timing struct {
	Seconds    int  `json:"seconds"`
	Locked     bool `json:"locked"`
	MinSeconds int  `json:"minSeconds"`
	MaxSeconds int  `json:"maxSeconds"`
}

type Script struct {
	Goal          string   `json:"goal"`
	TalkTrack     string   `json:"talkTrack"`
	KeyPoints     []string `json:"keyPoints"`
	TransitionIn  *string  `json:"transitionIn,omitempty"`
	TransitionOut *string  `json:"transitionOut,omitempty"`
}

type Raw struct {
	Text string `json:"text"`
}

type Slide struct {
	ID         string `json:"slideId"`
	Index      int    `json:"index"`
	TitleGuess string `json:"titleGuess"`
	Raw        Raw    `json:"raw"`
	Timing     Timing `json:"timing"`
	Script     Script `json:"script"`
	Flags      []Flag `json:"flags"`
}

// Content is the full Project+Slides snapshot returned after every mutation.
type Content struct {
	Project Project `json:"project"`
	Slides  []Slide `json:"slides"`
}

const (
	DefaultTitle           = "Untitled Presentation"
	DefaultTotalSeconds    = 420
	DefaultQABufferSeconds = 30

	DefaultSlideSeconds    = 30
	DefaultSlideMinSeconds = 10
	DefaultSlideMaxSeconds = 120
)

func DefaultSettings() Settings {
	return Settings{
		TotalSeconds:    DefaultTotalSeconds,
		QABufferSeconds: DefaultQABufferSeconds,
		Audience:        AudienceInternal,
		Tone:            TonePolite,
		Language:        LanguageJapanese,
	}
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := &Content{Project: c.Project}
	if c.Project.Source != nil {
		src := *c.Project.Source
		out.Project.Source = &src
	}
	out.Slides = make([]Slide, len(c.Slides))
	for i, slide := range c.Slides {
		out.Slides[i] = slide.clone()
	}
	return out
}

// SlideByID returns a pointer into c.Slides, or nil.
func (c *Content) SlideByID(id string) *Slide {
	for i := range c.Slides {
		if c.Slides[i].ID == id {
			return &c.Slides[i]
		}
	}
	return nil
}

func (s Slide) clone() Slide {
	out := s
	if s.Script.KeyPoints != nil {
		out.Script.KeyPoints = make([]string, len(s.Script.KeyPoints))
		copy(out.Script.KeyPoints, s.Script.KeyPoints)
	}
	out.Script.TransitionIn = cloneString(s.Script.TransitionIn)
	out.Script.TransitionOut = cloneString(s.Script.TransitionOut)
	if s.Flags != nil {
		out.Flags = make([]Flag, len(s.Flags))
		copy(out.Flags, s.Flags)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
