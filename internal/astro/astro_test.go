package astro

import (
	"math"
	"testing"
)

func TestDirectionVectorFromAltAzZenith(t *testing.T) {
	v := DirectionVectorFromAltAz(90, 0)
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y) > 1e-12 || math.Abs(v.Z-1) > 1e-12 {
		t.Errorf("DirectionVectorFromAltAz(90,0) = %+v, want (0,0,1)", v)
	}
}

func TestDirectionVectorFromEquatorialPole(t *testing.T) {
	v := DirectionVectorFromEquatorial(0, 90)
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y) > 1e-12 || math.Abs(v.Z-1) > 1e-12 {
		t.Errorf("DirectionVectorFromEquatorial(0,90) = %+v, want (0,0,1)", v)
	}
}

func TestAltAzDirectionVectorRoundTrip(t *testing.T) {
	cases := []struct{ alt, az float64 }{
		{90, 0}, {0, 0}, {0, 90}, {0, 180}, {45, 270}, {-10, 123.4},
	}
	for _, c := range cases {
		v := DirectionVectorFromAltAz(c.alt, c.az)
		alt, az := AltAzFromDirectionVector(v)
		if math.Abs(alt-c.alt) > 1e-9 {
			t.Errorf("alt round trip: got %v, want %v", alt, c.alt)
		}
		if c.alt < 89.999 { // azimuth is undefined at the zenith
			if angDiff(az, c.az) > 1e-7 {
				t.Errorf("az round trip: got %v, want %v", az, c.az)
			}
		}
	}
}

func TestEquatorialDirectionVectorRoundTrip(t *testing.T) {
	cases := []struct{ ra, dec float64 }{
		{0, 90}, {6, 0}, {12, -45}, {23.5, 10},
	}
	for _, c := range cases {
		v := DirectionVectorFromEquatorial(c.ra, c.dec)
		ra, dec := EquatorialFromDirectionVector(v)
		if math.Abs(dec-c.dec) > 1e-9 {
			t.Errorf("dec round trip: got %v, want %v", dec, c.dec)
		}
		if c.dec < 89.999 {
			if angDiff(ra*15, c.ra*15) > 1e-7 {
				t.Errorf("ra round trip: got %v, want %v", ra, c.ra)
			}
		}
	}
}

// TestEquatorialHorizontalRoundTrip checks that for any (ra,dec,jd,pos),
// converting to horizontal and back recovers the original coordinates.
func TestEquatorialHorizontalRoundTrip(t *testing.T) {
	pos := Position{LatitudeDeg: 0, LongitudeDeg: 0, ElevationM: 0}
	jd := 2451545.0

	cases := []struct{ ra, dec float64 }{
		{0, 0}, {6, 30}, {18, -20}, {23.9, 5},
	}
	for _, c := range cases {
		alt, az := EquatorialToHorizontal(c.ra, c.dec, pos, jd)
		ra, dec := HorizontalToEquatorial(alt, az, pos, jd)
		if math.Abs(dec-c.dec) > 1e-8 {
			t.Errorf("dec round trip: got %v, want %v", dec, c.dec)
		}
		if angDiff(ra*15, c.ra*15) > 1e-6 {
			t.Errorf("ra round trip: got %v, want %v", ra, c.ra)
		}
	}
}

func TestGMSTAtJ2000(t *testing.T) {
	// GMST at J2000.0 (2000 Jan 1, 12h TT) is approximately 280.46 degrees.
	g := GMSTDeg(2451545.0)
	if math.Abs(g-280.46) > 0.01 {
		t.Errorf("GMST(J2000.0) = %v, want ~280.46", g)
	}
}

func angDiff(a, b float64) float64 {
	d := math.Mod(a-b+540, 360) - 180
	return math.Abs(d)
}
