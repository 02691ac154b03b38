package quiz

// AgeRange 年龄段选项。
type AgeRange string

const (
	Age35To44 AgeRange = "35-44"
	Age45To54 AgeRange = "45-54"
	Age55To64 AgeRange = "55-64"
	Age65Plus AgeRange = "65+"
)

// Valid reports whether the value is one of the rendered options.
func (a AgeRange) Valid() bool {
	switch a {
	case Age35To44, Age45To54, Age55To64, Age65Plus:
		return true
	}
	return false
}

// BodyType 当前体型。
type BodyType string

const (
	BodyNormal BodyType = "normal"
	BodyCurvy  BodyType = "curvy"
	BodyPlus   BodyType = "plus"
)

func (b BodyType) Valid() bool {
	switch b {
	case BodyNormal, BodyCurvy, BodyPlus:
		return true
	}
	return false
}

// DreamBody 目标体型。
type DreamBody string

const (
	DreamFit      DreamBody = "fit"
	DreamAthletic DreamBody = "athletic"
	DreamShapely  DreamBody = "shapely"
	DreamContent  DreamBody = "content"
)

func (d DreamBody) Valid() bool {
	switch d {
	case DreamFit, DreamAthletic, DreamShapely, DreamContent:
		return true
	}
	return false
}

// ChairYogaExperience 椅子瑜伽经验。
type ChairYogaExperience string

const (
	ExperienceNever   ChairYogaExperience = "never"
	ExperienceTried   ChairYogaExperience = "tried"
	ExperienceRegular ChairYogaExperience = "regular"
)

func (c ChairYogaExperience) Valid() bool {
	switch c {
	case ExperienceNever, ExperienceTried, ExperienceRegular:
		return true
	}
	return false
}

// YogaLevel is derived from the experience answer but may also be set directly.
type YogaLevel string

const (
	LevelBeginner     YogaLevel = "beginner"
	LevelBasic        YogaLevel = "basic"
	LevelIntermediate YogaLevel = "intermediate"
	LevelAdvanced     YogaLevel = "advanced"
)

func (l YogaLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelBasic, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// LevelFor maps an experience answer to the yoga level shown on the plan.
func (c ChairYogaExperience) LevelFor() YogaLevel {
	switch c {
	case ExperienceNever:
		return LevelBeginner
	case ExperienceTried:
		return LevelBasic
	case ExperienceRegular:
		return LevelIntermediate
	}
	return ""
}

// AvailableTime 每日可用练习时间。
type AvailableTime string

const (
	TimeLess15 AvailableTime = "less15"
	Time15To30 AvailableTime = "15to30"
	Time30To45 AvailableTime = "30to45"
	TimeMore45 AvailableTime = "more45"
)

func (t AvailableTime) Valid() bool {
	switch t {
	case TimeLess15, Time15To30, Time30To45, TimeMore45:
		return true
	}
	return false
}

// Minutes returns the daily session length the option stands for.
func (t AvailableTime) Minutes() int {
	switch t {
	case TimeLess15:
		return 15
	case Time15To30:
		return 30
	case Time30To45:
		return 45
	case TimeMore45:
		return 60
	}
	return 0
}

// ActivityLevel 日常活动水平。
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLightly    ActivityLevel = "lightly"
	ActivityModerately ActivityLevel = "moderately"
	ActivityVery       ActivityLevel = "very"
	ActivityHighly     ActivityLevel = "highly"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLightly, ActivityModerately, ActivityVery, ActivityHighly:
		return true
	}
	return false
}

// TargetZone 希望重点锻炼的身体部位（多选）。
type TargetZone string

const (
	ZoneFullBody TargetZone = "full-body"
	ZoneBreasts  TargetZone = "breasts"
	ZoneArms     TargetZone = "arms"
	ZoneBelly    TargetZone = "belly"
	ZoneButt     TargetZone = "butt"
	ZoneLegs     TargetZone = "legs"
	ZoneBack     TargetZone = "back"
)

func (z TargetZone) Valid() bool {
	switch z {
	case ZoneFullBody, ZoneBreasts, ZoneArms, ZoneBelly, ZoneButt, ZoneLegs, ZoneBack:
		return true
	}
	return false
}

// Sensitivity 身体不适部位（多选，none 与其他选项互斥）。
type Sensitivity string

const (
	SensitivityBack      Sensitivity = "back"
	SensitivityKnees     Sensitivity = "knees"
	SensitivityShoulders Sensitivity = "shoulders"
	SensitivityWrists    Sensitivity = "wrists"
	SensitivityBalance   Sensitivity = "balance"
	SensitivityNone      Sensitivity = "none"
)

func (s Sensitivity) Valid() bool {
	switch s {
	case SensitivityBack, SensitivityKnees, SensitivityShoulders, SensitivityWrists, SensitivityBalance, SensitivityNone:
		return true
	}
	return false
}
