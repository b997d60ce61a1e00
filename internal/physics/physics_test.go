package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/physlab/internal/integrators"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestRefract(t *testing.T) {
	tests := []struct {
		name    string
		n1, n2  float64
		i       float64
		want    float64
		wantTIR bool
	}{
		{"air to glass", 1.0, 1.5, 40, 25.37, false},
		{"air to water", 1.0, 1.33, 40, 28.90, false},
		{"normal incidence", 1.5, 1.0, 0, 0, false},
		{"glass to air below critical", 1.5, 1.0, 30, 48.59, false},
		{"glass to air beyond critical", 1.5, 1.0, 45, 0, true},
		{"water to air beyond critical", 1.33, 1.0, 60, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tir := Refract(tt.n1, tt.n2, tt.i)
			if tir != tt.wantTIR {
				t.Fatalf("tir = %v, want %v", tir, tt.wantTIR)
			}
			if !tir && !near(got, tt.want, 0.01) {
				t.Errorf("Refract = %.4f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestCriticalAngle(t *testing.T) {
	c, ok := CriticalAngle(1.5, 1.0)
	if !ok || !near(c, 41.81, 0.01) {
		t.Errorf("glass/air critical = %v %v", c, ok)
	}
	if _, ok := CriticalAngle(1.0, 1.5); ok {
		t.Error("air/glass has no critical angle")
	}
	if _, tir := Refract(1.5, 1.0, c+0.01); !tir {
		t.Error("just past the critical angle should reflect")
	}
}

func TestIndex(t *testing.T) {
	if Index("glass") != 1.5 || Index("water") != 1.33 || Index("vacuum") != 1 {
		t.Error("unexpected indices")
	}
}

func TestGate(t *testing.T) {
	tests := []struct {
		kind string
		a, b bool
		want bool
	}{
		{"NAND", true, false, true},
		{"AND", true, false, false},
		{"OR", false, false, false},
		{"NOR", false, false, true},
		{"XOR", true, true, false},
		{"XOR", true, false, true},
		{"NOT", true, true, false},
		{"NOT", false, true, true},
	}

	for _, tt := range tests {
		got, err := Gate(tt.kind, tt.a, tt.b)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("%s(%v,%v) = %v, want %v", tt.kind, tt.a, tt.b, got, tt.want)
		}
	}

	if _, err := Gate("XNOR", true, true); !errors.Is(err, ErrUnknownGate) {
		t.Errorf("expected ErrUnknownGate, got %v", err)
	}
}

func TestTruthTable(t *testing.T) {
	rows, _ := TruthTable("NOT")
	if len(rows) != 2 {
		t.Errorf("NOT has %d rows, want 2", len(rows))
	}
	rows, _ = TruthTable("XOR")
	if len(rows) != 4 || rows[1] != [3]bool{false, true, true} {
		t.Errorf("XOR rows %v", rows)
	}
}

func TestCurrent(t *testing.T) {
	if got := Current(10, 5, true); got != 2 {
		t.Errorf("Current(10,5) = %v, want exactly 2", got)
	}
	for _, r := range []float64{1, 5, 17, 50} {
		if got := Current(10, r, false); got != 0 {
			t.Errorf("open circuit with R=%v carries %v", r, got)
		}
	}
}

func TestInverseSquare(t *testing.T) {
	got := InverseSquare(Gravitation, 5, 5, 300)
	if !near(got, 0.016667, 1e-6) {
		t.Errorf("force = %v, want 0.016667", got)
	}
	if math.IsInf(InverseSquare(Gravitation, 1, 1, 0), 0) {
		t.Error("zero distance should stay finite")
	}
}

func TestMalus(t *testing.T) {
	p1, p2 := Polarizers(0, 90)
	if !near(p1, 1, 1e-12) || !near(p2, 0, 1e-12) {
		t.Errorf("crossed polarizers: %v %v", p1, p2)
	}
	_, p2 = Polarizers(20, 80)
	want := math.Pow(math.Cos(20*math.Pi/180), 2) * 0.25
	if !near(p2, want, 1e-12) {
		t.Errorf("got %v want %v", p2, want)
	}
}

func TestThinLens(t *testing.T) {
	v, m, ok := ThinLens(10, -30)
	if !ok || !near(v, 15, 1e-9) || !near(m, -0.5, 1e-9) {
		t.Errorf("convex real image: v=%v m=%v", v, m)
	}
	if _, _, ok := ThinLens(10, -10); ok {
		t.Error("object at focus should have no image")
	}
	v, _, _ = ThinLens(-10, -30)
	if v >= 0 {
		t.Errorf("concave lens gives virtual image, got v=%v", v)
	}
}

func TestMaxSpeed(t *testing.T) {
	for _, angle := range []float64{10, 30, 45, 60, 80} {
		f := Flight{Speed: MaxSpeed(angle), Angle: angle}
		if f.Range() > MaxRange+1e-6 || f.Apex() > MaxHeight+1e-6 {
			t.Errorf("angle %v: range %v apex %v exceed the bench", angle, f.Range(), f.Apex())
		}
		if !near(f.Range(), MaxRange, 1e-6) && !near(f.Apex(), MaxHeight, 1e-6) {
			t.Errorf("angle %v: cap is not tight", angle)
		}
	}
}

func TestFlight(t *testing.T) {
	f := Flight{Speed: 20, Angle: 90}
	_, y := f.At(f.Duration())
	if !near(y, 0, 1e-9) {
		t.Errorf("lands at y=%v", y)
	}
	_, vy := f.Velocity(f.Duration() / 2)
	if !near(vy, 0, 1e-9) {
		t.Errorf("vy at apex = %v", vy)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		a1, a2, phi float64
		want        Interference
	}{
		{50, 50, math.Pi, Destructive},
		{50, 20, math.Pi, Partial},
		{50, 20, 0.1, Constructive},
		{50, 50, 2*math.Pi - 0.1, Constructive},
		{50, 50, -0.1, Constructive},
		{50, 50, math.Pi / 2, Partial},
		{50, 50, 3 * math.Pi, Destructive},
	}

	for _, tt := range tests {
		if got := Classify(tt.a1, tt.a2, tt.phi); got != tt.want {
			t.Errorf("Classify(%v,%v,%.2f) = %v, want %v", tt.a1, tt.a2, tt.phi, got, tt.want)
		}
	}
}

func TestResultantAmplitude(t *testing.T) {
	if !near(ResultantAmplitude(30, 30, math.Pi), 0, 1e-9) {
		t.Error("opposite phases should cancel")
	}
	if !near(ResultantAmplitude(30, 20, 0), 50, 1e-9) {
		t.Error("in-phase amplitudes should add")
	}
}

func TestPistonVolume(t *testing.T) {
	hot := PistonVolume(1, 0.3)
	cold := PistonVolume(0.1, 0.3)
	if hot <= cold {
		t.Errorf("hot gas should expand: hot=%v cold=%v", hot, cold)
	}
	if PistonVolume(0.3, 1) >= PistonVolume(0.3, 0.1) {
		t.Error("a heavier load should compress the gas")
	}
	if !near(PistonVolume(0.3, 0.3), 260*1.04/1.1, 1e-9) {
		t.Errorf("default volume %v", PistonVolume(0.3, 0.3))
	}
}

func TestRadiation(t *testing.T) {
	if Range(Gamma, 1) != 720 || Range(Alpha, 0.5) != 110 {
		t.Error("unexpected ranges")
	}
	if Deflection(Gamma, 1, 3) != 0 {
		t.Error("gamma rays should not bend")
	}
	if Deflection(Alpha, 1, 1)*Deflection(Beta, 1, 1) >= 0 {
		t.Error("alpha and beta should bend in opposite directions")
	}
	if math.Abs(Deflection(Beta, 0.1, 1)) != math.Abs(Deflection(Beta, 0.2, 1)) {
		t.Error("energy floor not applied")
	}
	if Absorber(Alpha) != 0 || Absorber(Beta) != 1 || Absorber(Gamma) != -1 {
		t.Error("unexpected absorbers")
	}
}

func TestPendulumEnergy(t *testing.T) {
	p := NewPendulum(2, 1.5)
	rk := integrators.NewRK4()
	x := integrators.State{0.5, 0}
	e0 := p.Energy(x)
	for i := 0; i < 600; i++ {
		x = rk.Step(p, x, float64(i)/60, 1.0/60)
	}
	if drift := math.Abs(p.Energy(x)-e0) / e0; drift > 1e-4 {
		t.Errorf("energy drift %.2e", drift)
	}
}

func TestLevel(t *testing.T) {
	for _, tt := range []struct {
		e    float64
		want int
	}{{0, 0}, {0.32, 0}, {0.33, 1}, {0.5, 1}, {0.66, 2}, {1, 2}} {
		if got := Level(tt.e); got != tt.want {
			t.Errorf("Level(%v) = %d, want %d", tt.e, got, tt.want)
		}
	}
}

func TestPhotoemission(t *testing.T) {
	tests := []struct {
		name    string
		e, gap  float64
		emits   bool
		streams int
	}{
		{"below silicon gap", 1.0, 1.12, false, 0},
		{"at the gap", 1.12, 1.12, true, 1},
		{"0.6 eV over", 1.72, 1.12, true, 4},
		{"far over germanium", 3, 0.67, true, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emits, streams := Photoemission(tt.e, tt.gap)
			if emits != tt.emits || streams != tt.streams {
				t.Errorf("Photoemission = %v, %d; want %v, %d", emits, streams, tt.emits, tt.streams)
			}
		})
	}
	if BandGap("GaAs") != 1.43 || BandGap("unobtainium") != 0 {
		t.Error("unexpected band gaps")
	}
}

func TestFill(t *testing.T) {
	if OrbitalCapacity() != 86 {
		t.Fatalf("capacity = %d", OrbitalCapacity())
	}
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "1s1"},
		{7, "1s2 2s2 2p3"},
		{8, "1s2 2s2 2p4"},
		{21, "1s2 2s2 2p6 3s2 3p6 4s2 3d1"},
		{200, ""},
	}
	for _, tt := range tests {
		got := Configuration(tt.n)
		if tt.n == 200 {
			if Configuration(tt.n) != Configuration(OrbitalCapacity()) {
				t.Errorf("overfilling should saturate, got %q", got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("Configuration(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}

	// nitrogen's 2p has three unpaired electrons, oxygen pairs the first
	if p := Fill(7)[2]; p[0] != 1 || p[1] != 1 || p[2] != 1 {
		t.Errorf("nitrogen 2p = %v", p)
	}
	if p := Fill(8)[2]; p[0] != 2 || p[1] != 1 || p[2] != 1 {
		t.Errorf("oxygen 2p = %v", p)
	}
}

func TestPhaseAndHeatingCurve(t *testing.T) {
	for _, tt := range []struct {
		c    float64
		want Phase
	}{{-10, Solid}, {0, Liquid}, {100, Liquid}, {100.5, Gas}} {
		if got := PhaseAt(tt.c); got != tt.want {
			t.Errorf("PhaseAt(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}

	curve := HeatingCurve()
	if len(curve) != 100 {
		t.Fatalf("curve has %d samples", len(curve))
	}
	if curve[0].Temp != CurveMin || curve[25].Temp != 0 || curve[65].Temp != 100 {
		t.Errorf("unexpected plateaus: %v %v %v", curve[0], curve[25], curve[65])
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].Temp < curve[i-1].Temp {
			t.Fatalf("curve cools at %d", i)
		}
	}
	if CurveIndex(CurveMin, 100) != 0 || CurveIndex(CurveMax, 100) != 99 || CurveIndex(60, 100) != 50 {
		t.Error("unexpected curve indices")
	}

	if ParticleSpeed(-5) != 0 || !near(ParticleSpeed(50), 0.6, 1e-9) || !near(ParticleSpeed(200), 3.4, 1e-9) {
		t.Errorf("speeds %v %v %v", ParticleSpeed(-5), ParticleSpeed(50), ParticleSpeed(200))
	}
}

func TestCarnotCycleCloses(t *testing.T) {
	for i, leg := range CarnotCycle {
		v0, p0 := leg.At(0)
		if v0 != leg.From[0] || p0 != leg.From[1] {
			t.Errorf("leg %d starts at %v,%v", i, v0, p0)
		}
		v1, p1 := leg.At(1)
		next := CarnotCycle[(i+1)%len(CarnotCycle)]
		if v1 != next.From[0] || p1 != next.From[1] {
			t.Errorf("leg %d ends at %v,%v, next starts at %v", i, v1, p1, next.From)
		}
	}
	v, p := CarnotCycle[0].At(0.5)
	if !near(v, 2.0, 1e-9) || !near(p, 3.3, 1e-9) {
		t.Errorf("midpoint = %v,%v", v, p)
	}
}
