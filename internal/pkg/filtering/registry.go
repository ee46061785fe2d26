package filtering

import (
	"errors"
	"math/bits"
	"strconv"
	"strings"
)

// ErrRegistryFull is returned by RegisterType when all MaxTypes bits are taken.
var ErrRegistryFull = errors.New("filter type registry is full")

// TypeRegistry allocates bit positions for named filter categories.
// Not safe for concurrent mutation.
type TypeRegistry struct {
	allocated uint32
	names     [MaxTypes]string
	maxType   uint8
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{}
}

// RegisterType allocates the lowest free bit for name.
func (r *TypeRegistry) RegisterType(name string) (uint8, uint32, error) {
	free := ^r.allocated
	if free == 0 {
		return UnknownType, 0, ErrRegistryFull
	}

	index := uint8(bits.TrailingZeros32(free))
	mask := uint32(1) << index
	r.allocated |= mask
	r.names[index] = name
	if index > r.maxType {
		r.maxType = index
	}
	return index, mask, nil
}

// UnregisterType frees index. Unknown indices are ignored.
func (r *TypeRegistry) UnregisterType(index uint8) {
	if index >= MaxTypes {
		return
	}
	r.allocated &^= uint32(1) << index
	r.names[index] = ""

	// recompute rather than decrement so removals below the top don't
	// leave maxType pointing at a freed bit
	if r.allocated == 0 {
		r.maxType = 0
	} else {
		r.maxType = uint8(31 - bits.LeadingZeros32(r.allocated))
	}
}

// MaxType returns the highest allocated index, or 0 for an empty registry.
func (r *TypeRegistry) MaxType() uint8 {
	return r.maxType
}

// Allocated returns the bitmask of every registered type.
func (r *TypeRegistry) Allocated() uint32 {
	return r.allocated
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	return bits.OnesCount32(r.allocated)
}

// IsRegistered reports whether index is currently allocated.
func (r *TypeRegistry) IsRegistered(index uint8) bool {
	return index < MaxTypes && r.allocated&(uint32(1)<<index) != 0
}

// Name returns the name registered at index, or "Unknown:<mask>".
func (r *TypeRegistry) Name(index uint8) string {
	if !r.IsRegistered(index) {
		if index >= MaxTypes {
			return unknownName(0)
		}
		return unknownName(uint32(1) << index)
	}
	return r.names[index]
}

// NameForMask returns the name of the single type whose mask is mask, or
// "Unknown:<mask>".
func (r *TypeRegistry) NameForMask(mask uint32) string {
	if bits.OnesCount32(mask) != 1 || r.allocated&mask == 0 {
		return unknownName(mask)
	}
	return r.names[bits.TrailingZeros32(mask)]
}

// Type returns the lowest index registered under name, or UnknownType.
func (r *TypeRegistry) Type(name string) uint8 {
	for i := uint8(0); i < MaxTypes; i++ {
		if r.IsRegistered(i) && r.names[i] == name {
			return i
		}
	}
	return UnknownType
}

// Mask returns the mask registered under name, or 0.
func (r *TypeRegistry) Mask(name string) uint32 {
	index := r.Type(name)
	if index == UnknownType {
		return 0
	}
	return uint32(1) << index
}

// Names returns every registered name whose bit is set in mask, each
// followed by ':', in ascending mask order.
func (r *TypeRegistry) Names(mask uint32) string {
	var sb strings.Builder
	for set := mask & r.allocated; set != 0; set &= set - 1 {
		sb.WriteString(r.names[bits.TrailingZeros32(set)])
		sb.WriteByte(':')
	}
	return sb.String()
}

// ValidMask reports whether mask overlaps the allocated set in any bit.
// It does not require every bit of mask to be allocated.
func (r *TypeRegistry) ValidMask(mask uint32) bool {
	return r.allocated&mask != 0
}

// Types returns the allocated indices in ascending order.
func (r *TypeRegistry) Types() []uint8 {
	out := make([]uint8, 0, r.Len())
	for set := r.allocated; set != 0; set &= set - 1 {
		out = append(out, uint8(bits.TrailingZeros32(set)))
	}
	return out
}

func unknownName(mask uint32) string {
	return "Unknown:" + strconv.FormatUint(uint64(mask), 10)
}
