package nfs

import (
	"bytes"
	"fmt"
)

// SetAttrFields is the decoded sattr3 structure: each field is present only
// when the client asked to set it.
type SetAttrFields struct {
	Mode *uint32
	UID  *uint32
	GID  *uint32
	Size *uint64
}

// readSattr3 decodes an sattr3. The atime and mtime members are consumed to
// keep the reader aligned but their values are discarded; attribute writes
// are not persisted here.
func readSattr3(r *bytes.Reader) (*SetAttrFields, error) {
	fields := &SetAttrFields{}

	mode, err := readOptionalUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read set_mode3: %w", err)
	}
	fields.Mode = mode

	uid, err := readOptionalUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read set_uid3: %w", err)
	}
	fields.UID = uid

	gid, err := readOptionalUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read set_gid3: %w", err)
	}
	fields.GID = gid

	sizeSet, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read set_size3: %w", err)
	}
	if sizeSet != 0 {
		size, err := readUint64(r)
		if err != nil {
			return nil, fmt.Errorf("read set_size3 value: %w", err)
		}
		fields.Size = &size
	}

	for _, member := range []string{"set_atime", "set_mtime"} {
		how, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", member, err)
		}
		// 2 = SET_TO_CLIENT_TIME carries an nfstime3 payload.
		if how == 2 {
			if _, err := readUint32(r); err != nil {
				return nil, fmt.Errorf("read %s seconds: %w", member, err)
			}
			if _, err := readUint32(r); err != nil {
				return nil, fmt.Errorf("read %s nseconds: %w", member, err)
			}
		}
	}

	return fields, nil
}

func readOptionalUint32(r *bytes.Reader) (*uint32, error) {
	set, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if set == 0 {
		return nil, nil
	}
	v, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
