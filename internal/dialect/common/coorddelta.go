package common

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/scalar"
)

// writeMaybeDiffCoord writes whichever components of m's write view
// (Prev vs Current) differ, returning a 3-bit mask of which components
// were written so the caller can fold it into its own header flags
// (U_ORIGIN1/2/3, PS_M_ORIGIN, ...).
func writeMaybeDiffCoord(w bitio.Writer, m *scalar.MaybeDiffCoord, mode CoordMode) (uint8, error) {
	var present uint8
	for i := 0; i < 3; i++ {
		prev, cur := m.Prev.Int(i), m.Current.Int(i)
		if prev == cur {
			continue
		}
		present |= 1 << uint(i)

		switch mode {
		case CoordI23:
			delta := cur - prev
			absolute := delta < i23DeltaMin || delta >= i23DeltaMax
			var err error
			if absolute {
				err = bitio.WriteI23Components(w, true, cur)
			} else {
				err = bitio.WriteI23Components(w, false, delta)
			}
			if err != nil {
				return 0, err
			}
		default:
			if err := w.WriteU16(uint16(m.Current.Short(i))); err != nil {
				return 0, err
			}
		}
	}
	return present, nil
}

const (
	i23DeltaMin = -0x4000
	i23DeltaMax = 0x4000
)

// writeCoordAll writes all 3 components of m's write view unconditionally,
// for the player-state origin/velocity fields, which (unlike entity
// origin) carry a single presence flag for the whole 3-vector rather
// than one flag per component.
func writeCoordAll(w bitio.Writer, m *scalar.MaybeDiffCoord, mode CoordMode) error {
	for i := 0; i < 3; i++ {
		prev, cur := m.Prev.Int(i), m.Current.Int(i)
		switch mode {
		case CoordI23:
			delta := cur - prev
			absolute := delta < i23DeltaMin || delta >= i23DeltaMax
			var err error
			if absolute {
				err = bitio.WriteI23Components(w, true, cur)
			} else {
				err = bitio.WriteI23Components(w, false, delta)
			}
			if err != nil {
				return err
			}
		default:
			if err := w.WriteU16(uint16(m.Current.Short(i))); err != nil {
				return err
			}
		}
	}
	return nil
}

// readMaybeDiffCoord builds a read-view MaybeDiffCoord for whichever
// components present flags; every other component is left absent
// (Resolve leaves it untouched at apply time).
func readMaybeDiffCoord(r bitio.Reader, present uint8, mode CoordMode) (scalar.MaybeDiffCoord, error) {
	var m scalar.MaybeDiffCoord
	for i := 0; i < 3; i++ {
		if present&(1<<uint(i)) == 0 {
			continue
		}
		m.Delta.Bits |= 1 << uint(i)

		switch mode {
		case CoordI23:
			isAbsolute, value, err := bitio.ReadI23Components(r)
			if err != nil {
				return m, err
			}
			if !isAbsolute {
				m.DiffBits |= 1 << uint(i)
			}
			m.Delta.Coord.SetInt(i, value)
		default:
			v, err := r.ReadU16()
			if err != nil {
				return m, err
			}
			m.Delta.Coord.SetShort(i, int16(v))
		}
	}
	return m, nil
}
