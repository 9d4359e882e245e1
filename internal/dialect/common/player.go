package common

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/player"
)

// WritePlayerDelta serializes a frame message's player_state_t delta:
// the protocol.PlayerFlags header, the changed top-level fields, the
// gun sub-record (frame/offset/angles travel together per the
// tri-coupling in player.DeltaBits's doc comment), the blend/damage
// colours, and the stat presence bitmask plus changed stat values.
func WritePlayerDelta(w bitio.Writer, d player.StateDelta, p Profile) error {
	flags, originMask, velocityMask := resolvePlayerWireFlags(d, p)

	if err := w.WriteU16(uint16(flags)); err != nil {
		return err
	}
	if p.ExtendedState {
		if err := w.WriteU16(uint16(flags >> 16)); err != nil {
			return err
		}
	}

	if d.Bits.Has(player.DeltaPMType) {
		if err := w.WriteU8(d.PMType); err != nil {
			return err
		}
	}
	if originMask != 0 {
		if err := writeCoordAll(w, &d.PMOrigin, p.Coords); err != nil {
			return err
		}
	}
	if velocityMask != 0 {
		if err := writeCoordAll(w, &d.PMVelocity, p.Coords); err != nil {
			return err
		}
	}
	if d.Bits.Has(player.DeltaPMTime) {
		if err := writePMByte(w, d.PMTime, p.ExtendedState); err != nil {
			return err
		}
	}
	if d.Bits.Has(player.DeltaPMFlags) {
		if err := writePMByte(w, d.PMFlags, p.ExtendedState); err != nil {
			return err
		}
	}
	if d.Bits.Has(player.DeltaPMGravity) {
		if err := w.WriteU16(uint16(d.PMGravity)); err != nil {
			return err
		}
	}
	if d.Bits.Has(player.DeltaPMDeltaAngles) {
		for i := 0; i < 3; i++ {
			if err := w.WriteU16(uint16(d.PMDeltaAngles.Short(i))); err != nil {
				return err
			}
		}
	}
	if d.Bits.Has(player.DeltaViewOffset) {
		for i := 0; i < 3; i++ {
			if err := w.WriteU8(uint8(d.ViewOffset.Char(i))); err != nil {
				return err
			}
		}
	}
	for i := 0; i < 3; i++ {
		if d.ViewAngles.Bits&(1<<uint(i)) == 0 {
			continue
		}
		if err := w.WriteU16(uint16(d.ViewAngles.Angle.Short(i))); err != nil {
			return err
		}
	}
	if d.Bits.Has(player.DeltaKickAngles) {
		for i := 0; i < 3; i++ {
			if err := w.WriteU8(uint8(d.KickAngles.Char(i))); err != nil {
				return err
			}
		}
	}
	if d.Bits.Has(player.DeltaGunIndex) {
		if err := writePMByte(w, d.GunIndex, p.ExtendedState); err != nil {
			return err
		}
	}
	if d.Bits.Has(player.DeltaGunFrame | player.DeltaGunOffset | player.DeltaGunAngles) {
		if err := w.WriteU8(d.GunFrame); err != nil {
			return err
		}
		for i := 0; i < 3; i++ {
			if err := w.WriteU8(uint8(d.GunOffset.Char(i))); err != nil {
				return err
			}
		}
		for i := 0; i < 3; i++ {
			if err := w.WriteU8(uint8(d.GunAngles.Char(i))); err != nil {
				return err
			}
		}
	}
	for i := 0; i < 4; i++ {
		if d.Blend.Bits&(1<<uint(i)) == 0 {
			continue
		}
		if err := w.WriteU8(d.Blend.Colour.Byte(i)); err != nil {
			return err
		}
	}
	if p.DamageBlend {
		for i := 0; i < 4; i++ {
			if d.DamageBlend.Bits&(1<<uint(i)) == 0 {
				continue
			}
			if err := w.WriteU8(d.DamageBlend.Colour.Byte(i)); err != nil {
				return err
			}
		}
	}
	if d.Bits.Has(player.DeltaFov) {
		if err := w.WriteU8(d.Fov); err != nil {
			return err
		}
	}
	if d.Bits.Has(player.DeltaRdFlags) {
		if err := w.WriteU8(d.RdFlags); err != nil {
			return err
		}
	}
	if p.ClientNumShort && d.Bits.Has(player.DeltaClientNum) {
		if err := w.WriteU16(uint16(d.ClientNum)); err != nil {
			return err
		}
	}
	if p.Rerelease && d.Bits.Has(player.DeltaViewHeight) {
		if err := w.WriteU8(uint8(d.ViewHeight)); err != nil {
			return err
		}
	}
	if p.Rerelease && d.Bits.Has(player.DeltaGunSkin) {
		if err := w.WriteU8(d.GunSkin); err != nil {
			return err
		}
	}
	if p.Fog && d.Bits.Has(player.DeltaFog) {
		if err := w.WriteU16(d.FogDensity); err != nil {
			return err
		}
		for i := 0; i < 3; i++ {
			if err := w.WriteU8(d.FogColor[i]); err != nil {
				return err
			}
		}
		if err := w.WriteU8(d.FogSkyFactor); err != nil {
			return err
		}
	}

	count := p.statCount()
	if err := writeStatBits(w, d.StatBits, count); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if d.StatBits&(1<<uint(i)) == 0 {
			continue
		}
		if err := w.WriteU16(uint16(d.Stats[i])); err != nil {
			return err
		}
	}
	return nil
}

// ReadPlayerDelta is the decode counterpart of WritePlayerDelta.
func ReadPlayerDelta(r bitio.Reader, p Profile) (player.StateDelta, error) {
	var d player.StateDelta

	lo, err := r.ReadU16()
	if err != nil {
		return d, err
	}
	flags := uint32(lo)
	if p.ExtendedState {
		hi, err := r.ReadU16()
		if err != nil {
			return d, err
		}
		flags |= uint32(hi) << 16
	}

	if protocol.PlayerFlags(flags).Has(protocol.PSMType) {
		d.Bits |= player.DeltaPMType
		d.PMType, err = r.ReadU8()
		if err != nil {
			return d, err
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSMOrigin) {
		d.PMOrigin, err = readMaybeDiffCoord(r, 0x7, p.Coords)
		if err != nil {
			return d, err
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSMVelocity) {
		d.PMVelocity, err = readMaybeDiffCoord(r, 0x7, p.Coords)
		if err != nil {
			return d, err
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSMTime) {
		d.Bits |= player.DeltaPMTime
		d.PMTime, err = readPMByte(r, p.ExtendedState)
		if err != nil {
			return d, err
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSMFlags) {
		d.Bits |= player.DeltaPMFlags
		d.PMFlags, err = readPMByte(r, p.ExtendedState)
		if err != nil {
			return d, err
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSMGravity) {
		d.Bits |= player.DeltaPMGravity
		v, rerr := r.ReadU16()
		if rerr != nil {
			return d, rerr
		}
		d.PMGravity = int16(v)
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSMDeltaAngles) {
		d.Bits |= player.DeltaPMDeltaAngles
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU16()
			if rerr != nil {
				return d, rerr
			}
			d.PMDeltaAngles.SetShort(i, int16(v))
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSViewOffset) {
		d.Bits |= player.DeltaViewOffset
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU8()
			if rerr != nil {
				return d, rerr
			}
			d.ViewOffset.SetChar(i, int8(v))
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSViewAngles) {
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU16()
			if rerr != nil {
				return d, rerr
			}
			d.ViewAngles.Bits |= 1 << uint(i)
			d.ViewAngles.Angle.SetShort(i, int16(v))
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSKickAngles) {
		d.Bits |= player.DeltaKickAngles
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU8()
			if rerr != nil {
				return d, rerr
			}
			d.KickAngles.SetChar(i, int8(v))
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSWeaponIndex) {
		d.Bits |= player.DeltaGunIndex
		d.GunIndex, err = readPMByte(r, p.ExtendedState)
		if err != nil {
			return d, err
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSWeaponFrame) {
		d.Bits |= player.DeltaGunFrame | player.DeltaGunOffset | player.DeltaGunAngles
		d.GunFrame, err = r.ReadU8()
		if err != nil {
			return d, err
		}
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU8()
			if rerr != nil {
				return d, rerr
			}
			d.GunOffset.SetChar(i, int8(v))
		}
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU8()
			if rerr != nil {
				return d, rerr
			}
			d.GunAngles.SetChar(i, int8(v))
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSBlend) {
		for i := 0; i < 4; i++ {
			v, rerr := r.ReadU8()
			if rerr != nil {
				return d, rerr
			}
			d.Blend.Bits |= 1 << uint(i)
			d.Blend.Colour.SetByte(i, v)
		}
		if p.DamageBlend {
			for i := 0; i < 4; i++ {
				v, rerr := r.ReadU8()
				if rerr != nil {
					return d, rerr
				}
				d.DamageBlend.Bits |= 1 << uint(i)
				d.DamageBlend.Colour.SetByte(i, v)
			}
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSFov) {
		d.Bits |= player.DeltaFov
		d.Fov, err = r.ReadU8()
		if err != nil {
			return d, err
		}
	}
	if protocol.PlayerFlags(flags).Has(protocol.PSRdFlags) {
		d.Bits |= player.DeltaRdFlags
		d.RdFlags, err = r.ReadU8()
		if err != nil {
			return d, err
		}
	}
	if p.ClientNumShort && protocol.PlayerFlags(flags).Has(protocol.PSClientNum) {
		d.Bits |= player.DeltaClientNum
		v, rerr := r.ReadU16()
		if rerr != nil {
			return d, rerr
		}
		d.ClientNum = int16(v)
	}
	if p.Rerelease && protocol.PlayerFlags(flags).Has(protocol.PSViewHeight) {
		d.Bits |= player.DeltaViewHeight
		v, rerr := r.ReadU8()
		if rerr != nil {
			return d, rerr
		}
		d.ViewHeight = int8(v)
	}
	if p.Rerelease && protocol.PlayerFlags(flags).Has(protocol.PSGunSkin) {
		d.Bits |= player.DeltaGunSkin
		v, rerr := r.ReadU8()
		if rerr != nil {
			return d, rerr
		}
		d.GunSkin = v
	}
	if p.Fog && protocol.PlayerFlags(flags).Has(protocol.PSFog) {
		d.Bits |= player.DeltaFog
		density, rerr := r.ReadU16()
		if rerr != nil {
			return d, rerr
		}
		d.FogDensity = density
		for i := 0; i < 3; i++ {
			v, rerr := r.ReadU8()
			if rerr != nil {
				return d, rerr
			}
			d.FogColor[i] = v
		}
		sky, rerr := r.ReadU8()
		if rerr != nil {
			return d, rerr
		}
		d.FogSkyFactor = sky
	}

	count := p.statCount()
	bits, err := readStatBits(r, count)
	if err != nil {
		return d, err
	}
	d.StatBits = bits
	for i := 0; i < count; i++ {
		if bits&(1<<uint(i)) == 0 {
			continue
		}
		v, rerr := r.ReadU16()
		if rerr != nil {
			return d, rerr
		}
		d.Stats[i] = int16(v)
	}
	return d, nil
}

// writePMByte/readPMByte carry pm_time, pm_flags and gunindex: vanilla
// reads all three as a single byte (playerstate->pm_time, u8 /
// pm_flags, u8 / gunindex, u8 per q2proto_proto_vanilla.c); the
// Q2PRO-extended dialects widen them to 16 bits to cover their larger
// pmove-flag and weapon-index space, gated the same way as the rest of
// their extended player-state fields.
func writePMByte(w bitio.Writer, v uint16, wide bool) error {
	if wide {
		return w.WriteU16(v)
	}
	return w.WriteU8(uint8(v))
}

func readPMByte(r bitio.Reader, wide bool) (uint16, error) {
	if wide {
		return r.ReadU16()
	}
	v, err := r.ReadU8()
	return uint16(v), err
}

func resolvePlayerWireFlags(d player.StateDelta, p Profile) (flags protocol.PlayerFlags, originMask, velocityMask uint8) {
	if d.Bits.Has(player.DeltaPMType) {
		flags |= protocol.PSMType
	}
	for i := 0; i < 3; i++ {
		if d.PMOrigin.Current.Int(i) != d.PMOrigin.Prev.Int(i) {
			originMask |= 1 << uint(i)
		}
		if d.PMVelocity.Current.Int(i) != d.PMVelocity.Prev.Int(i) {
			velocityMask |= 1 << uint(i)
		}
	}
	if originMask != 0 {
		flags |= protocol.PSMOrigin
	}
	if velocityMask != 0 {
		flags |= protocol.PSMVelocity
	}
	if d.Bits.Has(player.DeltaPMTime) {
		flags |= protocol.PSMTime
	}
	if d.Bits.Has(player.DeltaPMFlags) {
		flags |= protocol.PSMFlags
	}
	if d.Bits.Has(player.DeltaPMGravity) {
		flags |= protocol.PSMGravity
	}
	if d.Bits.Has(player.DeltaPMDeltaAngles) {
		flags |= protocol.PSMDeltaAngles
	}
	if d.Bits.Has(player.DeltaViewOffset) {
		flags |= protocol.PSViewOffset
	}
	if d.ViewAngles.Bits != 0 {
		flags |= protocol.PSViewAngles
	}
	if d.Bits.Has(player.DeltaKickAngles) {
		flags |= protocol.PSKickAngles
	}
	if d.Bits.Has(player.DeltaGunIndex) {
		flags |= protocol.PSWeaponIndex
	}
	if d.Bits.Has(player.DeltaGunFrame | player.DeltaGunOffset | player.DeltaGunAngles) {
		flags |= protocol.PSWeaponFrame
	}
	if d.Blend.Bits != 0 {
		flags |= protocol.PSBlend
	}
	if d.Bits.Has(player.DeltaFov) {
		flags |= protocol.PSFov
	}
	if d.Bits.Has(player.DeltaRdFlags) {
		flags |= protocol.PSRdFlags
	}
	if p.ClientNumShort && d.Bits.Has(player.DeltaClientNum) {
		flags |= protocol.PSClientNum
	}
	if p.Rerelease && d.Bits.Has(player.DeltaViewHeight) {
		flags |= protocol.PSViewHeight
	}
	if p.Rerelease && d.Bits.Has(player.DeltaGunSkin) {
		flags |= protocol.PSGunSkin
	}
	if p.Fog && d.Bits.Has(player.DeltaFog) {
		flags |= protocol.PSFog
	}
	return flags, originMask, velocityMask
}

func writeStatBits(w bitio.Writer, bits uint64, count int) error {
	if count > 32 {
		if err := w.WriteU32(uint32(bits)); err != nil {
			return err
		}
		return w.WriteU32(uint32(bits >> 32))
	}
	return w.WriteU32(uint32(bits))
}

func readStatBits(r bitio.Reader, count int) (uint64, error) {
	lo, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if count <= 32 {
		return uint64(lo), nil
	}
	hi, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return uint64(lo) | uint64(hi)<<32, nil
}
