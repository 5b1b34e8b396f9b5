package whoop

import (
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Extra Extra `json:"-"`
}

type BodyMeasurement struct {
	HeightMeter    float64 `json:"height_meter"`
	WeightKilogram float64 `json:"weight_kilogram"`
	MaxHeartRate   int     `json:"max_heart_rate"`

	Extra Extra `json:"-"`
}

type Cycle struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Start          time.Time   `json:"start"`
	End            *time.Time  `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	ScoreState     ScoreState  `json:"score_state"`
	Score          *CycleScore `json:"score"`

	Extra Extra `json:"-"`
}

type CycleScore struct {
	Strain           float64 `json:"strain"`
	Kilojoule        float64 `json:"kilojoule"`
	AverageHeartRate int     `json:"average_heart_rate"`
	MaxHeartRate     int     `json:"max_heart_rate"`

	Extra Extra `json:"-"`
}

type Recovery struct {
	CycleID    int64          `json:"cycle_id"`
	SleepID    uuid.UUID      `json:"sleep_id"`
	UserID     int64          `json:"user_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ScoreState ScoreState     `json:"score_state"`
	Score      *RecoveryScore `json:"score"`

	Extra Extra `json:"-"`
}

type RecoveryScore struct {
	UserCalibrating  bool    `json:"user_calibrating"`
	RecoveryScore    float64 `json:"recovery_score"`
	RestingHeartRate float64 `json:"resting_heart_rate"`
	HRVRmssdMilli    float64 `json:"hrv_rmssd_milli"`
	SpO2Percentage   float64 `json:"spo2_percentage"`
	SkinTempCelsius  float64 `json:"skin_temp_celsius"`

	Extra Extra `json:"-"`
}

type Sleep struct {
	ID             uuid.UUID   `json:"id"`
	CycleID        int64       `json:"cycle_id"`
	V1ID           *int64      `json:"v1_id"`
	UserID         int64       `json:"user_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	Nap            bool        `json:"nap"`
	ScoreState     ScoreState  `json:"score_state"`
	Score          *SleepScore `json:"score"`

	Extra Extra `json:"-"`
}

type SleepScore struct {
	StageSummary               SleepStages `json:"stage_summary"`
	SleepNeeded                SleepNeeded `json:"sleep_needed"`
	RespiratoryRate            float64     `json:"respiratory_rate"`
	SleepPerformancePercentage float64     `json:"sleep_performance_percentage"`
	SleepConsistencyPercentage float64     `json:"sleep_consistency_percentage"`
	SleepEfficiencyPercentage  float64     `json:"sleep_efficiency_percentage"`

	Extra Extra `json:"-"`
}

type SleepStages struct {
	TotalInBedTimeMilli         int `json:"total_in_bed_time_milli"`
	TotalAwakeTimeMilli         int `json:"total_awake_time_milli"`
	TotalNoDataTimeMilli        int `json:"total_no_data_time_milli"`
	TotalLightSleepTimeMilli    int `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepTimeMilli int `json:"total_slow_wave_sleep_time_milli"`
	TotalREMSleepTimeMilli      int `json:"total_rem_sleep_time_milli"`
	SleepCycleCount             int `json:"sleep_cycle_count"`
	DisturbanceCount            int `json:"disturbance_count"`

	Extra Extra `json:"-"`
}

type SleepNeeded struct {
	BaselineMilli             int `json:"baseline_milli"`
	NeedFromSleepDebtMilli    int `json:"need_from_sleep_debt_milli"`
	NeedFromRecentStrainMilli int `json:"need_from_recent_strain_milli"`
	NeedFromRecentNapMilli    int `json:"need_from_recent_nap_milli"`

	Extra Extra `json:"-"`
}

type Workout struct {
	ID             uuid.UUID     `json:"id"`
	V1ID           *int64        `json:"v1_id"`
	UserID         int64         `json:"user_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	TimezoneOffset string        `json:"timezone_offset"`
	SportName      string        `json:"sport_name"`
	ScoreState     ScoreState    `json:"score_state"`
	Score          *WorkoutScore `json:"score"`

	Extra Extra `json:"-"`
}

type WorkoutScore struct {
	Strain              float64      `json:"strain"`
	AverageHeartRate    int          `json:"average_heart_rate"`
	MaxHeartRate        int          `json:"max_heart_rate"`
	Kilojoule           float64      `json:"kilojoule"`
	PercentRecorded     float64      `json:"percent_recorded"`
	DistanceMeter       *float64     `json:"distance_meter"`
	AltitudeGainMeter   *float64     `json:"altitude_gain_meter"`
	AltitudeChangeMeter *float64     `json:"altitude_change_meter"`
	ZoneDurations       WorkoutZones `json:"zone_durations"`

	Extra Extra `json:"-"`
}

type WorkoutZones struct {
	ZoneZeroMilli  int `json:"zone_zero_milli"`
	ZoneOneMilli   int `json:"zone_one_milli"`
	ZoneTwoMilli   int `json:"zone_two_milli"`
	ZoneThreeMilli int `json:"zone_three_milli"`
	ZoneFourMilli  int `json:"zone_four_milli"`
	ZoneFiveMilli  int `json:"zone_five_milli"`

	Extra Extra `json:"-"`
}

func (p *UserProfile) UnmarshalJSON(data []byte) error {
	type alias UserProfile
	extra, err := unmarshalRecord(data, (*alias)(p))
	if err != nil {
		return err
	}
	p.Extra = extra
	return nil
}

func (p UserProfile) MarshalJSON() ([]byte, error) {
	type alias UserProfile
	return marshalRecord((*alias)(&p), p.Extra)
}

func (m *BodyMeasurement) UnmarshalJSON(data []byte) error {
	type alias BodyMeasurement
	extra, err := unmarshalRecord(data, (*alias)(m))
	if err != nil {
		return err
	}
	m.Extra = extra
	return nil
}

func (m BodyMeasurement) MarshalJSON() ([]byte, error) {
	type alias BodyMeasurement
	return marshalRecord((*alias)(&m), m.Extra)
}

func (c *Cycle) UnmarshalJSON(data []byte) error {
	type alias Cycle
	extra, err := unmarshalRecord(data, (*alias)(c))
	if err != nil {
		return err
	}
	c.Extra = extra
	return nil
}

func (c Cycle) MarshalJSON() ([]byte, error) {
	type alias Cycle
	return marshalRecord((*alias)(&c), c.Extra)
}

func (r *Recovery) UnmarshalJSON(data []byte) error {
	type alias Recovery
	extra, err := unmarshalRecord(data, (*alias)(r))
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

func (r Recovery) MarshalJSON() ([]byte, error) {
	type alias Recovery
	return marshalRecord((*alias)(&r), r.Extra)
}

func (s *Sleep) UnmarshalJSON(data []byte) error {
	type alias Sleep
	extra, err := unmarshalRecord(data, (*alias)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s Sleep) MarshalJSON() ([]byte, error) {
	type alias Sleep
	return marshalRecord((*alias)(&s), s.Extra)
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	type alias Workout
	extra, err := unmarshalRecord(data, (*alias)(w))
	if err != nil {
		return err
	}
	w.Extra = extra
	return nil
}

func (w Workout) MarshalJSON() ([]byte, error) {
	type alias Workout
	return marshalRecord((*alias)(&w), w.Extra)
}

func (s *CycleScore) UnmarshalJSON(data []byte) error {
	type alias CycleScore
	extra, err := unmarshalRecord(data, (*alias)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s CycleScore) MarshalJSON() ([]byte, error) {
	type alias CycleScore
	return marshalRecord((*alias)(&s), s.Extra)
}

func (s *RecoveryScore) UnmarshalJSON(data []byte) error {
	type alias RecoveryScore
	extra, err := unmarshalRecord(data, (*alias)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s RecoveryScore) MarshalJSON() ([]byte, error) {
	type alias RecoveryScore
	return marshalRecord((*alias)(&s), s.Extra)
}

func (s *SleepScore) UnmarshalJSON(data []byte) error {
	type alias SleepScore
	extra, err := unmarshalRecord(data, (*alias)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s SleepScore) MarshalJSON() ([]byte, error) {
	type alias SleepScore
	return marshalRecord((*alias)(&s), s.Extra)
}

func (s *SleepStages) UnmarshalJSON(data []byte) error {
	type alias SleepStages
	extra, err := unmarshalRecord(data, (*alias)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s SleepStages) MarshalJSON() ([]byte, error) {
	type alias SleepStages
	return marshalRecord((*alias)(&s), s.Extra)
}

func (n *SleepNeeded) UnmarshalJSON(data []byte) error {
	type alias SleepNeeded
	extra, err := unmarshalRecord(data, (*alias)(n))
	if err != nil {
		return err
	}
	n.Extra = extra
	return nil
}

func (n SleepNeeded) MarshalJSON() ([]byte, error) {
	type alias SleepNeeded
	return marshalRecord((*alias)(&n), n.Extra)
}

func (s *WorkoutScore) UnmarshalJSON(data []byte) error {
	type alias WorkoutScore
	extra, err := unmarshalRecord(data, (*alias)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s WorkoutScore) MarshalJSON() ([]byte, error) {
	type alias WorkoutScore
	return marshalRecord((*alias)(&s), s.Extra)
}

func (z *WorkoutZones) UnmarshalJSON(data []byte) error {
	type alias WorkoutZones
	extra, err := unmarshalRecord(data, (*alias)(z))
	if err != nil {
		return err
	}
	z.Extra = extra
	return nil
}

func (z WorkoutZones) MarshalJSON() ([]byte, error) {
	type alias WorkoutZones
	return marshalRecord((*alias)(&z), z.Extra)
}

func (p *UserProfile) validate() error {
	if p.UserID == 0 {
		return &MissingFieldError{Kind: KindUser, Field: "user_id"}
	}
	return nil
}

func (c *Cycle) validate() error {
	switch {
	case c.ID == 0:
		return &MissingFieldError{Kind: KindCycle, Field: "id"}
	case c.Start.IsZero():
		return &MissingFieldError{Kind: KindCycle, Field: "start"}
	}
	return nil
}

func (r *Recovery) validate() error {
	if r.CycleID == 0 {
		return &MissingFieldError{Kind: KindRecovery, Field: "cycle_id"}
	}
	return nil
}

func (s *Sleep) validate() error {
	switch {
	case s.ID == uuid.Nil:
		return &MissingFieldError{Kind: KindSleep, Field: "id"}
	case s.Start.IsZero():
		return &MissingFieldError{Kind: KindSleep, Field: "start"}
	case s.End.IsZero():
		return &MissingFieldError{Kind: KindSleep, Field: "end"}
	}
	return nil
}

func (w *Workout) validate() error {
	switch {
	case w.ID == uuid.Nil:
		return &MissingFieldError{Kind: KindWorkout, Field: "id"}
	case w.Start.IsZero():
		return &MissingFieldError{Kind: KindWorkout, Field: "start"}
	case w.End.IsZero():
		return &MissingFieldError{Kind: KindWorkout, Field: "end"}
	}
	return nil
}
