package outcome

import (
	"math"
	"testing"
)

func TestFromDesc(t *testing.T) {
	const none Outcome = -1
	tests := []struct {
		desc string
		want Outcome
	}{
		{"Single", Single},
		{"Double", Double},
		{"Triple", Triple},
		{"Home Run", Homerun},
		{"Flyball", Flyout},
		{"Popfly", Flyout},
		{"Pop Fly", Flyout},
		{"Lineout", Lineout},
		{"Groundout", Groundout},
		{"Bunt Ground Ball Double Play: Bunt 1B-3B-2B (Front of Home)", Groundout},
		{"Double Play: Fielder's Choice P; Conforto out at Hm/P-3B-C; Alonso out at 3B/C-3B", none},
		{"Balk; Walker to 2B", none},
		{"Defensive Indifference; Walker to 2B", none},
		{"Fielder's Choice 2B; Walker to 3B; Flores to 2B", none},
		{"Hit By Pitch; Walker to 2B", none},
		{"Passed Ball; Castro to 3B; Walker to 2B", none},
		{"Wild Pitch; Marte to 3B; Walker to 2B", none},
		{"Walker Steals 2B", none},
		{"Walker Caught Stealing", none},
		{"Double Play: Strikeout Swinging, Parra Caught Stealing 2B (C-2B)", Strikeout},
		{"Double Play: Groundout: 3B-2B/Forceout at 3B", Groundout},
		{"Ground Ball Double Play: 2B-SS-1B", Groundout},
		{"Ground-rule Double (Fly Ball to Deep RF Line); Peralta Scores; Walker to 3B", Double},
		{"Intentional Walk", Walk},
		{"Walk", Walk},
		{"Walker Picked off 1B (E1); Walker to 2B", none},
		{"Double Play", none},
		{"Double Play: Strikeout, Reyes Picked off 3B (C-3B)", Strikeout},
		{"Baserunner Advance; Ahmed to 2B", none},
		{"Baserunner Out Advancing; Winker out at 2B/C-SS", none},
		{"Bunt Groundout", Groundout},
		{"Bunt Popfly", Flyout},
		{"Double to CF (Line Drive to Deep CF-RF)", Double},
		{"Reached on E5 (Pop Fly to P's Right)", Flyout},
		{"Reached on E5 (throw) (Ground Ball to SS-3B Hole); Gurriel to 2B", Groundout},
		{"Reached on E6 (Line Drive to Deep SS-2B)", Lineout},
		{"Reached on Interference on C", none},
		{"Reached on E3 (Foul Ball)", none},
		{"Error on Foul Ball", Flyout},
	}

	for _, tt := range tests {
		got, ok := FromDesc(tt.desc)
		if tt.want == none {
			if ok {
				t.Errorf("FromDesc(%q) = %v, want no outcome", tt.desc, got)
			}
			continue
		}
		if !ok || got != tt.want {
			t.Errorf("FromDesc(%q) = %v, %v; want %v", tt.desc, got, ok, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if Homerun.String() != "homerun" {
		t.Errorf("Homerun.String() = %q", Homerun.String())
	}
	if Outcome(42).String() != "unknown" {
		t.Errorf("Outcome(42).String() = %q", Outcome(42).String())
	}
}

func TestDistribution(t *testing.T) {
	var counts [Count]int
	counts[Single] = 3
	counts[Strikeout] = 1

	dist := Distribution(counts)
	if math.Abs(dist[Single]-0.75) > 1e-9 {
		t.Errorf("dist[Single] = %v, want 0.75", dist[Single])
	}
	if math.Abs(dist[Strikeout]-0.25) > 1e-9 {
		t.Errorf("dist[Strikeout] = %v, want 0.25", dist[Strikeout])
	}

	empty := Distribution([Count]int{})
	for i, v := range empty {
		if v != 0 {
			t.Errorf("empty dist[%d] = %v, want 0", i, v)
		}
	}
}
