package indicators

import "testing"

func TestOBVAccumulates(t *testing.T) {
	closes := []float64{100, 102, 101, 103}
	volumes := []float64{10, 20, 15, 25}

	obv := OBV(closes, volumes)
	want := []float64{0, 20, 5, 30}
	if len(obv) != len(want) {
		t.Fatalf("OBV length = %d, want %d", len(obv), len(want))
	}
	for i := range want {
		if obv[i] != want[i] {
			t.Errorf("OBV[%d] = %v, want %v", i, obv[i], want[i])
		}
	}
}

func TestVolumeRatioNoHistory(t *testing.T) {
	if got := VolumeRatio(nil, 20); got != 1 {
		t.Errorf("VolumeRatio(nil) = %v, want 1", got)
	}
}

func TestVolumeRatioAboveAverage(t *testing.T) {
	volumes := make([]float64, 21)
	for i := range volumes {
		volumes[i] = 10
	}
	volumes[20] = 30
	if got := VolumeRatio(volumes, 20); got <= 1 {
		t.Errorf("VolumeRatio with spike = %v, want > 1", got)
	}
}
