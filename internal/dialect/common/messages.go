package common

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// The functions in this file serialize the svc_*/clc_* messages whose
// wire shape does not vary across dialects (spec.md §6.2): muzzleflash,
// temp entity, layout, inventory, sound, print, stufftext, configstring,
// centerprint, download, and the client-to-server messages. Dialects
// compose these with their own entity/player delta codec and their own
// serverdata/frame/setting handling (which does vary).
//
// WriteTempEntity/ReadTempEntity use one layout for all 64 TempEntityType
// variants rather than the original's per-variant minimal payload (the
// table of which fields each of the 64 types carries isn't available to
// us).

// ReadServerDataCommon reads the svc_serverdata fields common to every
// dialect (servercount, attractloop, gamedir, clientnum, levelname);
// the caller has already read the leading protocol field and dispatches
// to this after deciding which dialect is negotiated. Each dialect's
// own ContinueServerData reads its protocol-specific tail (R1Q2/Q2PRO's
// protocol_version, strafejump_hack, …) afterward.
func ReadServerDataCommon(r bitio.Reader, out *message.ServerData) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	out.ServerCount = int32(count)

	attract, err := r.ReadU8()
	if err != nil {
		return err
	}
	out.AttractLoop = attract != 0

	if out.GameDir, err = r.ReadString(); err != nil {
		return err
	}

	cn, err := r.ReadU16()
	if err != nil {
		return err
	}
	out.ClientNum = int16(cn)

	out.LevelName, err = r.ReadString()
	return err
}

// WriteServerDataCommon writes the svc_serverdata opcode and the fields
// common to every dialect; see ReadServerDataCommon.
func WriteServerDataCommon(w bitio.Writer, m message.ServerData) error {
	if err := w.WriteU8(uint8(protocol.SvcServerData)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(m.Protocol)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(m.ServerCount)); err != nil {
		return err
	}
	attract := uint8(0)
	if m.AttractLoop {
		attract = 1
	}
	if err := w.WriteU8(attract); err != nil {
		return err
	}
	if err := w.WriteString(m.GameDir); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(m.ClientNum)); err != nil {
		return err
	}
	return w.WriteString(m.LevelName)
}

func WriteMuzzleflash(w bitio.Writer, m message.Muzzleflash) error {
	if err := w.WriteU16(uint16(m.Entity)); err != nil {
		return err
	}
	weapon := uint8(m.Weapon)
	if m.Silenced {
		weapon |= protocol.MuzzleflashSilenced
	}
	return w.WriteU8(weapon)
}

func ReadMuzzleflash(r bitio.Reader, monster bool) (message.Muzzleflash, error) {
	ent, err := r.ReadU16()
	if err != nil {
		return message.Muzzleflash{}, err
	}
	weapon, err := r.ReadU8()
	if err != nil {
		return message.Muzzleflash{}, err
	}
	return message.Muzzleflash{
		Monster:  monster,
		Entity:   int16(ent),
		Weapon:   uint16(weapon &^ protocol.MuzzleflashSilenced),
		Silenced: weapon&protocol.MuzzleflashSilenced != 0,
	}, nil
}

func WriteTempEntity(w bitio.Writer, m message.TempEntity) error {
	if err := w.WriteU8(uint8(m.Type)); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if err := w.WriteU16(uint16(int16(m.Position1[i] * 8))); err != nil {
			return err
		}
	}
	for i := 0; i < 3; i++ {
		if err := w.WriteU16(uint16(int16(m.Position2[i] * 8))); err != nil {
			return err
		}
	}
	for i := 0; i < 3; i++ {
		if err := w.WriteU16(uint16(int16(m.Offset[i] * 8))); err != nil {
			return err
		}
	}
	if err := w.WriteU8(m.Direction); err != nil {
		return err
	}
	if err := w.WriteU8(m.Count); err != nil {
		return err
	}
	if err := w.WriteU8(m.Color); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(m.Entity1)); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(m.Entity2)); err != nil {
		return err
	}
	return w.WriteU32(uint32(m.Time))
}

func ReadTempEntity(r bitio.Reader) (message.TempEntity, error) {
	var m message.TempEntity
	t, err := r.ReadU8()
	if err != nil {
		return m, err
	}
	m.Type = protocol.TempEntityType(t)
	for i := 0; i < 3; i++ {
		v, err := r.ReadU16()
		if err != nil {
			return m, err
		}
		m.Position1[i] = float64(int16(v)) / 8
	}
	for i := 0; i < 3; i++ {
		v, err := r.ReadU16()
		if err != nil {
			return m, err
		}
		m.Position2[i] = float64(int16(v)) / 8
	}
	for i := 0; i < 3; i++ {
		v, err := r.ReadU16()
		if err != nil {
			return m, err
		}
		m.Offset[i] = float64(int16(v)) / 8
	}
	if m.Direction, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.Count, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.Color, err = r.ReadU8(); err != nil {
		return m, err
	}
	e1, err := r.ReadU16()
	if err != nil {
		return m, err
	}
	m.Entity1 = int16(e1)
	e2, err := r.ReadU16()
	if err != nil {
		return m, err
	}
	m.Entity2 = int16(e2)
	tm, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	m.Time = int32(tm)
	return m, nil
}

func WriteLayout(w bitio.Writer, m message.Layout) error { return w.WriteString(m.Text) }
func ReadLayout(r bitio.Reader) (message.Layout, error) {
	s, err := r.ReadString()
	return message.Layout{Text: s}, err
}

func WriteInventory(w bitio.Writer, m message.Inventory) error {
	for _, v := range m.Items {
		if err := w.WriteU16(uint16(v)); err != nil {
			return err
		}
	}
	return nil
}

func ReadInventory(r bitio.Reader) (message.Inventory, error) {
	var m message.Inventory
	for i := range m.Items {
		v, err := r.ReadU16()
		if err != nil {
			return m, err
		}
		m.Items[i] = int16(v)
	}
	return m, nil
}

func WriteSound(w bitio.Writer, m message.Sound) error {
	if err := w.WriteU8(uint8(m.Flags)); err != nil {
		return err
	}
	if err := w.WriteU8(uint8(m.Index)); err != nil {
		return err
	}
	if m.Flags.HasVolume() {
		if err := w.WriteU8(m.Volume); err != nil {
			return err
		}
	}
	if m.Flags.HasAttenuation() {
		if err := w.WriteU8(m.Attenuation); err != nil {
			return err
		}
	}
	if m.Flags.HasOffset() {
		if err := w.WriteU8(m.TimeOfs); err != nil {
			return err
		}
	}
	if m.Flags.HasEnt() {
		if err := w.WriteU16(m.Entity); err != nil {
			return err
		}
		if err := w.WriteU8(m.Channel); err != nil {
			return err
		}
	}
	if m.Flags.HasPos() {
		for i := 0; i < 3; i++ {
			if err := w.WriteU16(uint16(m.Pos.Short(i))); err != nil {
				return err
			}
		}
	}
	return nil
}

func ReadSound(r bitio.Reader) (message.Sound, error) {
	var m message.Sound
	flags, err := r.ReadU8()
	if err != nil {
		return m, err
	}
	m.Flags = protocol.SoundFlags(flags)
	idx, err := r.ReadU8()
	if err != nil {
		return m, err
	}
	m.Index = uint16(idx)
	if m.Flags.HasVolume() {
		if m.Volume, err = r.ReadU8(); err != nil {
			return m, err
		}
	} else {
		m.Volume = uint8(protocol.DefaultSoundPacketVolume * 255)
	}
	if m.Flags.HasAttenuation() {
		if m.Attenuation, err = r.ReadU8(); err != nil {
			return m, err
		}
	}
	if m.Flags.HasOffset() {
		if m.TimeOfs, err = r.ReadU8(); err != nil {
			return m, err
		}
	}
	if m.Flags.HasEnt() {
		if m.Entity, err = r.ReadU16(); err != nil {
			return m, err
		}
		if m.Channel, err = r.ReadU8(); err != nil {
			return m, err
		}
	}
	if m.Flags.HasPos() {
		for i := 0; i < 3; i++ {
			v, err := r.ReadU16()
			if err != nil {
				return m, err
			}
			m.Pos.SetShort(i, int16(v))
		}
	}
	return m, nil
}

func WritePrint(w bitio.Writer, m message.Print) error {
	if err := w.WriteU8(m.Level); err != nil {
		return err
	}
	return w.WriteString(m.Text)
}

func ReadPrint(r bitio.Reader) (message.Print, error) {
	var m message.Print
	var err error
	if m.Level, err = r.ReadU8(); err != nil {
		return m, err
	}
	m.Text, err = r.ReadString()
	return m, err
}

func WriteStuffText(w bitio.Writer, m message.StuffText) error { return w.WriteString(m.Text) }
func ReadStuffText(r bitio.Reader) (message.StuffText, error) {
	s, err := r.ReadString()
	return message.StuffText{Text: s}, err
}

func WriteConfigString(w bitio.Writer, m message.ConfigString) error {
	if err := w.WriteU16(m.Index); err != nil {
		return err
	}
	return w.WriteString(m.Value)
}

func ReadConfigString(r bitio.Reader) (message.ConfigString, error) {
	var m message.ConfigString
	var err error
	if m.Index, err = r.ReadU16(); err != nil {
		return m, err
	}
	m.Value, err = r.ReadString()
	return m, err
}

func WriteCenterPrint(w bitio.Writer, m message.CenterPrint) error { return w.WriteString(m.Text) }
func ReadCenterPrint(r bitio.Reader) (message.CenterPrint, error) {
	s, err := r.ReadString()
	return message.CenterPrint{Text: s}, err
}

// WriteDownload writes one download chunk. Size == -1 signals failure
// and carries no data/percent.
func WriteDownload(w bitio.Writer, m message.Download) error {
	if err := w.WriteU16(uint16(m.Size)); err != nil {
		return err
	}
	if m.Size < 0 {
		return nil
	}
	if err := w.WriteU8(m.Percent); err != nil {
		return err
	}
	n, err := w.WriteRaw(m.Data)
	if err != nil {
		return err
	}
	_ = n
	return nil
}

func ReadDownload(r bitio.Reader) (message.Download, error) {
	var m message.Download
	size, err := r.ReadU16()
	if err != nil {
		return m, err
	}
	m.Size = int16(size)
	if m.Size < 0 {
		return m, nil
	}
	if m.Percent, err = r.ReadU8(); err != nil {
		return m, err
	}
	m.Data, err = r.ReadRaw(int(m.Size))
	return m, err
}

func WriteSetting(w bitio.Writer, m message.Setting) error {
	if err := w.WriteU32(uint32(m.Index)); err != nil {
		return err
	}
	return w.WriteU32(uint32(m.Value))
}

func ReadSetting(r bitio.Reader) (message.Setting, error) {
	var m message.Setting
	idx, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	m.Index = int32(idx)
	val, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	m.Value = int32(val)
	return m, nil
}
