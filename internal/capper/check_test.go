package capper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCheckLimit_AtOrBelowLimitRemovesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	remover := NewMockRemover(ctrl)
	remover.EXPECT().Remove(gomock.Any(), gomock.Any()).Times(0)

	zones := []Zone{
		{ID: "empty"},
		{ID: "full", Individuals: []Individual{
			ind("a", "hare", 1, false, 0.1),
			ind("b", "hare", 0.5, false, 0.1),
		}},
	}

	res := CheckLimit(zones, 2, nil, remover)
	assert.False(t, res.RemovalOccurred())
	assert.Equal(t, 2, res.ZonesChecked)
}

func TestCheckLimit_OneRemovalPerOverLimitZone(t *testing.T) {
	ctrl := gomock.NewController(t)
	remover := NewMockRemover(ctrl)

	north := Zone{ID: "north", Individuals: []Individual{
		ind("n1", "deer", 1, false, 0.2),
		ind("n2", "deer", 1, false, 0.9),
		ind("n3", "deer", 1, false, 0.4),
		ind("n4", "deer", 1, false, 0.3),
	}}
	south := Zone{ID: "south", Individuals: []Individual{
		ind("s1", "boar", 1, false, 0.2),
	}}

	remover.EXPECT().Remove(north, north.Individuals[1]).Return(nil).Times(1)

	res := CheckLimit([]Zone{north, south}, 1, nil, remover)
	require.Len(t, res.Removals, 1)
	assert.Equal(t, "north", res.Removals[0].ZoneID)
	assert.Equal(t, "n2", res.Removals[0].Individual.ID)
	assert.Equal(t, 4, res.Removals[0].EligibleCount)
	assert.Equal(t, 1, res.Removals[0].MaxPopulation)
}

func TestCheckLimit_OnlyEligibleCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	remover := NewMockRemover(ctrl)

	zone := Zone{ID: "z", Individuals: []Individual{
		ind("tame1", "horse", 0.1, true, 0.99),
		ind("tame2", "horse", 0.1, true, 0.99),
		ind("wild1", "horse", 1, false, 0.2),
		ind("wild2", "horse", 1, false, 0.5),
	}}
	wild := func(i Individual) bool { return i.ID == "wild1" || i.ID == "wild2" }

	remover.EXPECT().Remove(zone, zone.Individuals[3]).Return(nil)

	res := CheckLimit([]Zone{zone}, 1, wild, remover)
	require.Len(t, res.Removals, 1)
	assert.Equal(t, "wild2", res.Removals[0].Individual.ID)
	assert.Equal(t, 2, res.Removals[0].EligibleCount)
}

func TestCheckLimit_ScenarioLargestGroupOverUnhealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	remover := NewMockRemover(ctrl)

	zone := Zone{ID: "map", Individuals: []Individual{
		ind("a1", "A", 1, false, 0.5),
		ind("a2", "A", 1, false, 0.6),
		ind("a3", "A", 1, false, 0.7),
		ind("b1", "B", 0.3, false, 0.1),
		ind("b2", "B", 1, false, 0.1),
	}}
	remover.EXPECT().Remove(zone, zone.Individuals[2]).Return(nil)

	res := CheckLimit([]Zone{zone}, 4, nil, remover)
	require.Len(t, res.Removals, 1)
	assert.Equal(t, "a3", res.Removals[0].Individual.ID)
}

func TestCheckLimit_RemovalErrorStillCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	remover := NewMockRemover(ctrl)
	boom := errors.New("despawn refused")

	zone := Zone{ID: "z", Individuals: []Individual{ind("x", "rat", 1, false, 0.1)}}
	remover.EXPECT().Remove(gomock.Any(), gomock.Any()).Return(boom)

	res := CheckLimit([]Zone{zone}, 0, nil, remover)
	require.Len(t, res.Removals, 1)
	assert.ErrorIs(t, res.Removals[0].Err, boom)
	assert.True(t, res.RemovalOccurred())
}

func TestCheckLimit_NegativeLimitTreatedAsZero(t *testing.T) {
	zone := Zone{ID: "z", Individuals: []Individual{ind("x", "rat", 1, false, 0.1)}}
	res := CheckLimit([]Zone{zone}, -5, nil, nil)
	require.Len(t, res.Removals, 1)
	assert.Equal(t, 0, res.Removals[0].MaxPopulation)
}
