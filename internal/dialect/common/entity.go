package common

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/entity"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// WriteEntityDelta serializes one baseline or frame_entity_delta entry:
// the entity-bit header (internal/entity.WriteHeader) followed by
// whichever fields d.Bits/its coordinate views mark as present, using
// p's coordinate mode and extended-state gate.
func WriteEntityDelta(w bitio.Writer, entNum uint16, d entity.StateDelta, p Profile) error {
	bits, _, angleMask, err := resolveEntityWireBits(d, p)
	if err != nil {
		return err
	}

	if err := entity.WriteHeader(w, bits, entNum); err != nil {
		return err
	}

	if _, err := writeMaybeDiffCoord(w, &d.Origin, p.Coords); err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		if angleMask&(1<<uint(i)) == 0 {
			continue
		}
		if p.ShortAngles {
			if err := w.WriteU16(uint16(d.Angle.Angle.Short(i))); err != nil {
				return err
			}
		} else if err := w.WriteU8(uint8(d.Angle.Angle.Char(i))); err != nil {
			return err
		}
	}

	if d.Bits.Has(entity.DeltaSkinNum) {
		if err := writeWidth(w, entity.SelectWidth(d.SkinNum, true), d.SkinNum); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaFrame) {
		if entity.SelectFrameWidth(uint32(d.Frame)) {
			if err := w.WriteU16(d.Frame); err != nil {
				return err
			}
		} else if err := w.WriteU8(uint8(d.Frame)); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaEffects) {
		if err := writeWidth(w, entity.SelectWidth(uint32(d.Effects), false), uint32(d.Effects)); err != nil {
			return err
		}
	}
	if p.ExtendedState && d.Bits.Has(entity.DeltaEffectsMore) {
		if err := w.WriteU32(d.EffectsMore); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaRenderFx) {
		if err := writeWidth(w, entity.SelectWidth(d.RenderFx, false), d.RenderFx); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaSolid) {
		if err := writeSolid(w, d.Solid, p.LongSolid); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaEvent) {
		if err := w.WriteU8(d.Event); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaModelIndex) {
		if err := w.WriteU8(uint8(d.ModelIndex)); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaModelIndex2) {
		if err := w.WriteU8(uint8(d.ModelIndex2)); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaModelIndex3) {
		if err := w.WriteU8(uint8(d.ModelIndex3)); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaModelIndex4) {
		if err := w.WriteU8(uint8(d.ModelIndex4)); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaSound) {
		if err := w.WriteU8(uint8(d.Sound)); err != nil {
			return err
		}
	}
	if p.ExtendedState && d.Bits.Has(entity.DeltaSound) {
		if err := w.WriteU8(d.LoopVolume); err != nil {
			return err
		}
		if err := w.WriteU8(d.LoopAttenuation); err != nil {
			return err
		}
	}
	if d.Bits.Has(entity.DeltaOldOrigin) {
		for i := 0; i < 3; i++ {
			if err := w.WriteU16(uint16(d.OldOrigin.Short(i))); err != nil {
				return err
			}
		}
	}
	if p.ExtendedState && d.Bits.Has(entity.DeltaAlpha) {
		if err := w.WriteU8(d.Alpha); err != nil {
			return err
		}
	}
	if p.ExtendedState && d.Bits.Has(entity.DeltaScale) {
		if err := w.WriteU8(d.Scale); err != nil {
			return err
		}
	}
	return nil
}

// ReadEntityDelta reads one baseline or frame_entity_delta entry.
// remove reports protocol.URemove (the entity left the PVS, no further
// fields follow).
func ReadEntityDelta(r bitio.Reader, p Profile) (entNum uint16, remove bool, d entity.StateDelta, err error) {
	bits, entNum, err := entity.ReadHeader(r)
	if err != nil {
		return 0, false, d, err
	}
	if bits.Has(protocol.URemove) {
		return entNum, true, d, nil
	}

	originMask := uint8(0)
	if bits.Has(protocol.UOrigin1) {
		originMask |= 1
	}
	if bits.Has(protocol.UOrigin2) {
		originMask |= 2
	}
	if bits.Has(protocol.UOrigin3) {
		originMask |= 4
	}
	d.Origin, err = readMaybeDiffCoord(r, originMask, p.Coords)
	if err != nil {
		return entNum, false, d, err
	}

	angleMask := uint8(0)
	if bits.Has(protocol.UAngle1) {
		angleMask |= 1
	}
	if bits.Has(protocol.UAngle2) {
		angleMask |= 2
	}
	if bits.Has(protocol.UAngle3) {
		angleMask |= 4
	}
	for i := 0; i < 3; i++ {
		if angleMask&(1<<uint(i)) == 0 {
			continue
		}
		d.Angle.Bits |= 1 << uint(i)
		if p.ShortAngles {
			v, rerr := r.ReadU16()
			if rerr != nil {
				return entNum, false, d, rerr
			}
			d.Angle.Angle.SetShort(i, int16(v))
		} else {
			c, rerr := r.ReadU8()
			if rerr != nil {
				return entNum, false, d, rerr
			}
			d.Angle.Angle.SetChar(i, int8(c))
		}
	}

	if bits.Has(protocol.USkin8 | protocol.USkin16) {
		d.Bits |= entity.DeltaSkinNum
		d.SkinNum, err = readWidth(r, widthOf(bits, protocol.USkin8, protocol.USkin16))
		if err != nil {
			return entNum, false, d, err
		}
	}
	if bits.Has(protocol.UFrame8) {
		d.Bits |= entity.DeltaFrame
		v, rerr := r.ReadU8()
		if rerr != nil {
			return entNum, false, d, rerr
		}
		d.Frame = uint16(v)
	} else if bits.Has(protocol.UFrame16) {
		d.Bits |= entity.DeltaFrame
		d.Frame, err = r.ReadU16()
		if err != nil {
			return entNum, false, d, err
		}
	}
	if bits.Has(protocol.UEffects8 | protocol.UEffects16) {
		d.Bits |= entity.DeltaEffects
		v, rerr := readWidth(r, widthOf(bits, protocol.UEffects8, protocol.UEffects16))
		if rerr != nil {
			return entNum, false, d, rerr
		}
		d.Effects = uint64(v)
	}
	if p.ExtendedState && bits.Has(protocol.UMoreFx8|protocol.UMoreFx16) {
		d.Bits |= entity.DeltaEffectsMore
		d.EffectsMore, err = r.ReadU32()
		if err != nil {
			return entNum, false, d, err
		}
	}
	if bits.Has(protocol.URenderFx8 | protocol.URenderFx16) {
		d.Bits |= entity.DeltaRenderFx
		d.RenderFx, err = readWidth(r, widthOf(bits, protocol.URenderFx8, protocol.URenderFx16))
		if err != nil {
			return entNum, false, d, err
		}
	}
	if bits.Has(protocol.USolid) {
		d.Bits |= entity.DeltaSolid
		d.Solid, err = readSolid(r, p.LongSolid)
		if err != nil {
			return entNum, false, d, err
		}
	}
	if bits.Has(protocol.UEvent) {
		d.Bits |= entity.DeltaEvent
		d.Event, err = r.ReadU8()
		if err != nil {
			return entNum, false, d, err
		}
	}
	if bits.Has(protocol.UModel) {
		d.Bits |= entity.DeltaModelIndex
		v, rerr := r.ReadU8()
		if rerr != nil {
			return entNum, false, d, rerr
		}
		d.ModelIndex = uint16(v)
	}
	if bits.Has(protocol.UModel2) {
		d.Bits |= entity.DeltaModelIndex2
		v, rerr := r.ReadU8()
		if rerr != nil {
			return entNum, false, d, rerr
		}
		d.ModelIndex2 = uint16(v)
	}
	if bits.Has(protocol.UModel3) {
		d.Bits |= entity.DeltaModelIndex3
		v, rerr := r.ReadU8()
		if rerr != nil {
			return entNum, false, d, rerr
		}
		d.ModelIndex3 = uint16(v)
	}
	if bits.Has(protocol.UModel4) {
		d.Bits |= entity.DeltaModelIndex4
		v, rerr := r.ReadU8()
		if rerr != nil {
			return entNum, false, d, rerr
		}
		d.ModelIndex4 = uint16(v)
	}
	if bits.Has(protocol.USound) {
		d.Bits |= entity.DeltaSound
		v, rerr := r.ReadU8()
		if rerr != nil {
			return entNum, false, d, rerr
		}
		d.Sound = uint16(v)
		if p.ExtendedState {
			d.LoopVolume, err = r.ReadU8()
			if err != nil {
				return entNum, false, d, err
			}
			d.LoopAttenuation, err = r.ReadU8()
			if err != nil {
				return entNum, false, d, err
			}
		}
	}
	if bits.Has(protocol.UOldOrigin) {
		d.Bits |= entity.DeltaOldOrigin
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU16()
			if rerr != nil {
				return entNum, false, d, rerr
			}
			d.OldOrigin.SetShort(i, int16(v))
		}
	}
	if p.ExtendedState && bits.Has(protocol.UAlpha) {
		d.Bits |= entity.DeltaAlpha
		d.Alpha, err = r.ReadU8()
		if err != nil {
			return entNum, false, d, err
		}
	}
	if p.ExtendedState && bits.Has(protocol.UScale) {
		d.Bits |= entity.DeltaScale
		d.Scale, err = r.ReadU8()
		if err != nil {
			return entNum, false, d, err
		}
	}
	return entNum, false, d, nil
}

// writeSolid/readSolid carry entity_state.solid at the width the
// dialect packed it at: vanilla/R1Q2-before-1905 use PackSolid16's
// 16-bit value (entity_state->solid, u16 per q2proto_proto_vanilla.c),
// every long-solid dialect the 32-bit PackSolid32 value.
func writeSolid(w bitio.Writer, solid uint32, long bool) error {
	if long {
		return w.WriteU32(solid)
	}
	return w.WriteU16(uint16(solid))
}

func readSolid(r bitio.Reader, long bool) (uint32, error) {
	if long {
		return r.ReadU32()
	}
	v, err := r.ReadU16()
	return uint32(v), err
}

func widthOf(bits protocol.EntityFlags, b8, b16 protocol.EntityFlags) entity.WidthFlags {
	var w entity.WidthFlags
	if bits.Has(b8) {
		w |= entity.Width8
	}
	if bits.Has(b16) {
		w |= entity.Width16
	}
	return w
}

func writeWidth(w bitio.Writer, wf entity.WidthFlags, value uint32) error {
	switch wf {
	case entity.Width8:
		return w.WriteU8(uint8(value))
	case entity.Width16:
		return w.WriteU16(uint16(value))
	default:
		return w.WriteU32(value)
	}
}

func readWidth(r bitio.Reader, wf entity.WidthFlags) (uint32, error) {
	switch wf {
	case entity.Width8:
		v, err := r.ReadU8()
		return uint32(v), err
	case entity.Width16:
		v, err := r.ReadU16()
		return uint32(v), err
	default:
		return r.ReadU32()
	}
}

// resolveEntityWireBits derives the protocol.EntityFlags header and the
// origin/angle component masks from a StateDelta, writing them in one
// place so WriteEntityDelta and HeaderSize (if a caller ever needs a
// dry-run size) stay in sync.
func resolveEntityWireBits(d entity.StateDelta, p Profile) (bits protocol.EntityFlags, originMask, angleMask uint8, err error) {
	for i := 0; i < 3; i++ {
		if d.Origin.Current.Int(i) != d.Origin.Prev.Int(i) {
			originMask |= 1 << uint(i)
		}
	}
	if originMask&1 != 0 {
		bits |= protocol.UOrigin1
	}
	if originMask&2 != 0 {
		bits |= protocol.UOrigin2
	}
	if originMask&4 != 0 {
		bits |= protocol.UOrigin3
	}

	angleMask = d.Angle.Bits
	if angleMask&1 != 0 {
		bits |= protocol.UAngle1
	}
	if angleMask&2 != 0 {
		bits |= protocol.UAngle2
	}
	if angleMask&4 != 0 {
		bits |= protocol.UAngle3
	}

	if d.Bits.Has(entity.DeltaSkinNum) {
		bits |= widthFlagsToEntity(entity.SelectWidth(d.SkinNum, true), protocol.USkin8, protocol.USkin16)
	}
	if d.Bits.Has(entity.DeltaFrame) {
		if entity.SelectFrameWidth(uint32(d.Frame)) {
			bits |= protocol.UFrame16
		} else {
			bits |= protocol.UFrame8
		}
	}
	if d.Bits.Has(entity.DeltaEffects) {
		bits |= widthFlagsToEntity(entity.SelectWidth(uint32(d.Effects), false), protocol.UEffects8, protocol.UEffects16)
	}
	if p.ExtendedState && d.Bits.Has(entity.DeltaEffectsMore) {
		bits |= protocol.UMoreFx8 | protocol.UMoreFx16
	}
	if d.Bits.Has(entity.DeltaRenderFx) {
		bits |= widthFlagsToEntity(entity.SelectWidth(d.RenderFx, false), protocol.URenderFx8, protocol.URenderFx16)
	}
	if d.Bits.Has(entity.DeltaSolid) {
		bits |= protocol.USolid
	}
	if d.Bits.Has(entity.DeltaEvent) {
		bits |= protocol.UEvent
	}
	if d.Bits.Has(entity.DeltaModelIndex) {
		bits |= protocol.UModel
	}
	if d.Bits.Has(entity.DeltaModelIndex2) {
		bits |= protocol.UModel2
	}
	if d.Bits.Has(entity.DeltaModelIndex3) {
		bits |= protocol.UModel3
	}
	if d.Bits.Has(entity.DeltaModelIndex4) {
		bits |= protocol.UModel4
	}
	if d.Bits.Has(entity.DeltaSound) {
		bits |= protocol.USound
	}
	if d.Bits.Has(entity.DeltaOldOrigin) {
		bits |= protocol.UOldOrigin
	}
	if p.ExtendedState && d.Bits.Has(entity.DeltaAlpha) {
		bits |= protocol.UAlpha
	}
	if p.ExtendedState && d.Bits.Has(entity.DeltaScale) {
		bits |= protocol.UScale
	}
	return bits, originMask, angleMask, nil
}

func widthFlagsToEntity(wf entity.WidthFlags, b8, b16 protocol.EntityFlags) protocol.EntityFlags {
	var bits protocol.EntityFlags
	if wf&entity.Width8 != 0 {
		bits |= b8
	}
	if wf&entity.Width16 != 0 {
		bits |= b16
	}
	return bits
}
