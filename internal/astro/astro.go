// Package astro converts between the equatorial frame (right ascension,
// declination) an observer uses to specify a celestial target and the
// horizontal frame (altitude, azimuth) a telescope mount actually points
// in, plus the direction-cosine representation the alignment engine works
// in internally.
//
// All functions are pure: they take a Julian date and geographic position
// as explicit arguments rather than reading a clock or a global reference
// position, so the alignment engine can reuse them for both "now" and
// historical sync-point timestamps.
//
// The horizontal <-> equatorial rotation uses a South-East-Zenith
// construction (rotate the vector about latitude), applied here to an
// equatorial unit vector built from hour angle and declination rather than
// an ECEF range vector.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/star/scopealign/internal/vector"
)

const (
	degToRad   = math.Pi / 180.0
	radToDeg   = 180.0 / math.Pi
	hoursToDeg = 15.0
	j2000      = 2451545.0
)

// Position is an observer's geographic reference position.
type Position struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	ElevationM   float64
}

// Hint selects how "actual" direction vectors are constructed: directly
// from equatorial coordinates for a polar-aligned mount, or via horizontal
// coordinates (which requires a Position and a Julian date) for a mount
// that starts roughly level at the zenith.
type Hint int

const (
	Zenith Hint = iota
	NorthCelestialPole
	SouthCelestialPole
)

func (h Hint) String() string {
	switch h {
	case Zenith:
		return "zenith"
	case NorthCelestialPole:
		return "north_celestial_pole"
	case SouthCelestialPole:
		return "south_celestial_pole"
	default:
		return "unknown"
	}
}

// JulianDate converts a UTC time.Time to a Julian date.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// GMSTDeg returns the Greenwich Mean Sidereal Time in degrees, [0,360),
// for the given Julian date. Uses the IAU-82 model (Vallado, "Fundamentals
// of Astrodynamics", Eq 3-47); refraction and nutation are not modeled.
func GMSTDeg(jd float64) float64 {
	t := (jd - j2000) / 36525.0

	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*t +
		0.093104*t*t -
		6.2e-6*t*t*t

	gmstSec = math.Mod(gmstSec, 86400.0)
	if gmstSec < 0 {
		gmstSec += 86400.0
	}
	return gmstSec / 240.0 // 86400 seconds of time == 360 degrees
}

// LocalSiderealTimeDeg returns the local sidereal time in degrees, [0,360),
// for a given Julian date and observer longitude (east-positive, degrees).
func LocalSiderealTimeDeg(jd, longitudeDeg float64) float64 {
	return wrapDeg(GMSTDeg(jd) + longitudeDeg)
}

func wrapDeg(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

func wrapHours(h float64) float64 {
	h = math.Mod(h, 24.0)
	if h < 0 {
		h += 24.0
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EquatorialToHorizontal converts right ascension (decimal hours) and
// declination (decimal degrees) to altitude/azimuth (decimal degrees) for
// an observer at pos, at Julian date jd.
func EquatorialToHorizontal(raHours, decDeg float64, pos Position, jd float64) (altDeg, azDeg float64) {
	hourAngleDeg := wrapDeg(LocalSiderealTimeDeg(jd, pos.LongitudeDeg) - raHours*hoursToDeg)
	hRad := hourAngleDeg * degToRad
	decRad := decDeg * degToRad
	latRad := pos.LatitudeDeg * degToRad

	eqX := math.Cos(decRad) * math.Cos(hRad)
	eqY := math.Cos(decRad) * math.Sin(hRad)
	eqZ := math.Sin(decRad)

	sinLat, cosLat := math.Sincos(latRad)

	// Hour angle grows westward, so eqY is the west component.
	south := sinLat*eqX - cosLat*eqZ
	east := -eqY
	zenith := cosLat*eqX + sinLat*eqZ

	altDeg = math.Asin(clamp(zenith, -1, 1)) * radToDeg
	azDeg = wrapDeg(math.Atan2(east, -south) * radToDeg)
	return
}

// HorizontalToEquatorial is the inverse of EquatorialToHorizontal.
func HorizontalToEquatorial(altDeg, azDeg float64, pos Position, jd float64) (raHours, decDeg float64) {
	altRad := altDeg * degToRad
	azRad := azDeg * degToRad
	latRad := pos.LatitudeDeg * degToRad

	east := math.Cos(altRad) * math.Sin(azRad)
	south := -math.Cos(altRad) * math.Cos(azRad)
	zenith := math.Sin(altRad)

	sinLat, cosLat := math.Sincos(latRad)

	eqX := sinLat*south + cosLat*zenith
	eqY := -east
	eqZ := -cosLat*south + sinLat*zenith

	decDeg = math.Asin(clamp(eqZ, -1, 1)) * radToDeg
	hourAngleDeg := math.Atan2(eqY, eqX) * radToDeg

	raHours = wrapHours((LocalSiderealTimeDeg(jd, pos.LongitudeDeg) - hourAngleDeg) / hoursToDeg)
	return
}

// DirectionVectorFromAltAz returns the unit direction vector for (alt,az)
// in decimal degrees. Convention: az=0 is north (+Y), az=90 is east (+X),
// alt=90 is zenith (+Z). DirectionVectorFromAltAz(90,0) == (0,0,1).
func DirectionVectorFromAltAz(altDeg, azDeg float64) vector.Vector {
	altRad := altDeg * degToRad
	azRad := azDeg * degToRad
	cosAlt := math.Cos(altRad)
	return vector.New(cosAlt*math.Sin(azRad), cosAlt*math.Cos(azRad), math.Sin(altRad))
}

// AltAzFromDirectionVector is the inverse of DirectionVectorFromAltAz.
// v need not be unit length; only its direction is used.
func AltAzFromDirectionVector(v vector.Vector) (altDeg, azDeg float64) {
	v.Normalise()
	altDeg = math.Asin(clamp(v.Z, -1, 1)) * radToDeg
	azDeg = wrapDeg(math.Atan2(v.X, v.Y) * radToDeg)
	return
}

// DirectionVectorFromEquatorial returns the unit direction vector for a
// right ascension (decimal hours) and declination (decimal degrees).
// DirectionVectorFromEquatorial(0,90) == (0,0,1).
func DirectionVectorFromEquatorial(raHours, decDeg float64) vector.Vector {
	raRad := wrapHours(raHours) * hoursToDeg * degToRad
	decRad := decDeg * degToRad
	cosDec := math.Cos(decRad)
	return vector.New(cosDec*math.Cos(raRad), cosDec*math.Sin(raRad), math.Sin(decRad))
}

// EquatorialFromDirectionVector is the inverse of DirectionVectorFromEquatorial.
// v need not be unit length; only its direction is used.
func EquatorialFromDirectionVector(v vector.Vector) (raHours, decDeg float64) {
	v.Normalise()
	decDeg = math.Asin(clamp(v.Z, -1, 1)) * radToDeg
	raRad := math.Atan2(v.Y, v.X)
	if raRad < 0 {
		raRad += 2 * math.Pi
	}
	raHours = raRad * radToDeg / hoursToDeg
	return
}

// DirectionVectorFromEntry computes the "actual" direction vector for an
// observation made at raHours/decDeg/jd under the given hint and position.
// Factored out so the ZENITH-vs-polar branch appears exactly once: every
// build and query path that needs an actual direction vector calls this.
func DirectionVectorFromEntry(hint Hint, raHours, decDeg float64, pos Position, jd float64) vector.Vector {
	if hint == Zenith {
		alt, az := EquatorialToHorizontal(raHours, decDeg, pos, jd)
		return DirectionVectorFromAltAz(alt, az)
	}
	return DirectionVectorFromEquatorial(raHours, decDeg)
}

// CelestialFromDirectionVector is the inverse of DirectionVectorFromEntry:
// it recovers (ra,dec) from an actual direction vector under the given
// hint, position, and Julian date.
func CelestialFromDirectionVector(hint Hint, v vector.Vector, pos Position, jd float64) (raHours, decDeg float64) {
	if hint == Zenith {
		alt, az := AltAzFromDirectionVector(v)
		return HorizontalToEquatorial(alt, az, pos, jd)
	}
	return EquatorialFromDirectionVector(v)
}

// DummyAxisVector returns the fixed second basis direction used to
// synthesize a transform when only one real sync point is available:
// (0,0,1) for ZENITH, or the direction vector of the active
// celestial pole for a polar hint.
func DummyAxisVector(hint Hint) vector.Vector {
	switch hint {
	case NorthCelestialPole:
		return DirectionVectorFromEquatorial(0, 90)
	case SouthCelestialPole:
		return DirectionVectorFromEquatorial(0, -90)
	default:
		return vector.New(0, 0, 1)
	}
}
