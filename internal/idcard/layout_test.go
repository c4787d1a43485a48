package idcard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testAssets() *Assets {
	return &Assets{
		OrgName:      "Org",
		RulesHeading: "Rules",
		Dark:         RGB{R: 15, G: 122, B: 62},
		Light:        RGB{R: 95, G: 180, B: 140},
	}
}

func regionByName(t *testing.T, regions []Region, name string) Region {
	t.Helper()
	for _, r := range regions {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("layout has no region %q", name)
	return Region{}
}

func TestCardLayoutSealAndQRStayApart(t *testing.T) {
	regions := cardLayout(105, 74, testAssets())

	seal := regionByName(t, regions, "seal")
	qr := regionByName(t, regions, "qr")
	require.Equal(t, PageBack, seal.Page)
	require.Equal(t, PageBack, qr.Page)
	require.False(t, seal.Box.Intersects(qr.Box))
}

func TestCardLayoutPhotoStaysOnCanvas(t *testing.T) {
	const w, h = 105.0, 74.0
	photo := regionByName(t, cardLayout(w, h, testAssets()), "photo")

	require.GreaterOrEqual(t, photo.Box.X, 0.0)
	require.GreaterOrEqual(t, photo.Box.Y, 0.0)
	require.LessOrEqual(t, photo.Box.X+photo.Box.W, w)
	require.LessOrEqual(t, photo.Box.Y+photo.Box.H, h)
	require.True(t, photo.Optional)
}

func TestCardLayoutCoversBothPages(t *testing.T) {
	regions := cardLayout(105, 74, testAssets())

	pages := map[int]int{}
	for _, r := range regions {
		pages[r.Page]++
	}
	require.NotZero(t, pages[PageFront])
	require.NotZero(t, pages[PageBack])
	require.Len(t, pages, 2)
}

func TestBoxIntersects(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	require.True(t, a.Intersects(Box{X: 5, Y: 5, W: 10, H: 10}))
	require.True(t, a.Intersects(Box{X: 2, Y: 2, W: 2, H: 2}), "containment counts as overlap")
	require.False(t, a.Intersects(Box{X: 10, Y: 0, W: 5, H: 5}), "shared edge is not overlap")
	require.False(t, a.Intersects(Box{X: 20, Y: 20, W: 5, H: 5}))
}

func TestFitBox(t *testing.T) {
	box := Box{X: 10, Y: 20, W: 20, H: 26}

	t.Run("tall image fills height", func(t *testing.T) {
		fit := FitBox(box, 40, 60)
		require.InDelta(t, 26.0, fit.H, 1e-9)
		require.InDelta(t, 40.0/60.0*26.0, fit.W, 1e-9)
		require.GreaterOrEqual(t, fit.X, box.X)
		require.InDelta(t, 20.0, fit.Y, 1e-9)
	})

	t.Run("wide image fills width", func(t *testing.T) {
		fit := FitBox(box, 100, 50)
		require.InDelta(t, 20.0, fit.W, 1e-9)
		require.InDelta(t, 10.0, fit.H, 1e-9)
		require.InDelta(t, 10.0, fit.X, 1e-9)
		require.Greater(t, fit.Y, box.Y)
	})

	t.Run("fit stays inside the box", func(t *testing.T) {
		for _, dims := range [][2]float64{{1, 1}, {3000, 10}, {10, 3000}} {
			fit := FitBox(box, dims[0], dims[1])
			require.GreaterOrEqual(t, fit.X, box.X)
			require.GreaterOrEqual(t, fit.Y, box.Y)
			require.LessOrEqual(t, fit.X+fit.W, box.X+box.W+1e-9)
			require.LessOrEqual(t, fit.Y+fit.H, box.Y+box.H+1e-9)
		}
	})

	t.Run("degenerate source collapses", func(t *testing.T) {
		fit := FitBox(box, 0, 0)
		require.Zero(t, fit.W)
		require.Zero(t, fit.H)
	})
}
