package rewards

// Default rewards policy values. The divisors translate spent/topped-up
// iMoney into earned points (floored, minimum one point per event).
const (
	DefaultDailyManualCap int64 = 100

	TopUpPointsDivisor     int64 = 10
	SkillPointsDivisor     int64 = 20
	ChallengePointsDivisor int64 = 15
)

// DefaultConversionTiers is the fixed points-to-iMoney table. Conversion
// requires an exact tier match; there is no partial or interpolated
// conversion.
var DefaultConversionTiers = []ConversionTier{
	{Points: 100, IMoney: 10},
	{Points: 200, IMoney: 25},
	{Points: 300, IMoney: 40},
	{Points: 400, IMoney: 55},
}
