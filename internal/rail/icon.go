package rail

import (
	"errors"
	"fmt"
)

// NoIconCache is the reserved cacheId meaning "do not cache"; icons
// addressed with it resolve to the single scratch slot.
const NoIconCache uint8 = 0xFF

// ErrIconCacheBounds is returned when an icon address is outside the
// session-negotiated cache grid.
var ErrIconCacheBounds = errors.New("icon cache address out of bounds")

// IconAddress names an icon cache slot: either a (cacheId, cacheEntry)
// grid position or the scratch slot.
type IconAddress struct {
	scratch bool
	cacheID uint8
	entry   uint16
}

// IconAddressFor resolves the wire (cacheId, cacheEntry) pair. The
// reserved cacheId maps to the scratch slot regardless of cacheEntry.
func IconAddressFor(cacheID uint8, cacheEntry uint16) IconAddress {
	if cacheID == NoIconCache {
		return IconAddress{scratch: true}
	}
	return IconAddress{cacheID: cacheID, entry: cacheEntry}
}

// String returns the address in cache:entry form.
func (a IconAddress) String() string {
	if a.scratch {
		return "scratch"
	}
	return fmt.Sprintf("%02X:%04X", a.cacheID, a.entry)
}

// Icon is one cache slot. Data is the window-system icon property
// payload: width and height followed by row-major ARGB pixels, widened
// to the property's integer element type.
type Icon struct {
	Data []uint
}

// Empty reports whether the slot has never held a decoded icon.
func (i *Icon) Empty() bool {
	return len(i.Data) == 0
}

// IconCache is the fixed-size icon store of one session: a
// numCaches × numCacheEntries grid plus one scratch slot for uncached
// icons. Slots are reused in place across updates and live until
// session teardown.
type IconCache struct {
	numCaches       uint32
	numCacheEntries uint32
	entries         []Icon
	scratch         Icon
}

// NewIconCache allocates an empty cache with the session-negotiated grid
// dimensions.
func NewIconCache(numCaches, numCacheEntries uint32) *IconCache {
	return &IconCache{
		numCaches:       numCaches,
		numCacheEntries: numCacheEntries,
		entries:         make([]Icon, numCaches*numCacheEntries),
	}
}

// Lookup returns the slot for the given address. An out-of-range address
// is a lookup failure, never an allocation.
func (c *IconCache) Lookup(addr IconAddress) (*Icon, error) {
	if addr.scratch {
		return &c.scratch, nil
	}
	if uint32(addr.cacheID) >= c.numCaches || uint32(addr.entry) >= c.numCacheEntries {
		return nil, fmt.Errorf("lookup icon %s: %w", addr, ErrIconCacheBounds)
	}
	return &c.entries[c.numCacheEntries*uint32(addr.cacheID)+uint32(addr.entry)], nil
}

// maxIconDimension bounds decode work; MS-RDPERP icons are at most
// 64x64 but some hosts send larger custom icons.
const maxIconDimension = 1024

// DecodeIcon converts a device-independent bitmap icon description into
// the flat icon property payload and stores it in dst. The slot is only
// replaced after the whole decode succeeds; on error the previously
// cached payload is left untouched.
func DecodeIcon(info *IconInfo, dst *Icon) error {
	argb, err := decodeIconPixels(info)
	if err != nil {
		return err
	}

	width := int(info.Width)
	height := int(info.Height)
	data := make([]uint, 2+width*height)
	data[0] = uint(width)
	data[1] = uint(height)
	for i, px := range argb {
		data[2+i] = uint(px)
	}
	dst.Data = data
	return nil
}

// decodeIconPixels produces row-major top-down ARGB pixels from the DIB
// icon description: bottom-up color scanlines aligned to 4 bytes, an
// optional bottom-up 1-bpp AND mask aligned to 2 bytes, and a BGRX
// palette for indexed formats.
func decodeIconPixels(info *IconInfo) ([]uint32, error) {
	width := int(info.Width)
	height := int(info.Height)
	if width <= 0 || height <= 0 || width > maxIconDimension || height > maxIconDimension {
		return nil, fmt.Errorf("invalid icon dimensions %dx%d", width, height)
	}

	bpp := int(info.BPP)
	switch bpp {
	case 1, 4, 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported icon depth %d bpp", bpp)
	}

	colorStride := ((width*bpp + 31) / 32) * 4
	if len(info.BitsColor) < colorStride*height {
		return nil, fmt.Errorf("icon color data truncated: have %d bytes, need %d",
			len(info.BitsColor), colorStride*height)
	}

	maskStride := ((width + 15) / 16) * 2
	hasMask := len(info.BitsMask) > 0
	if hasMask && len(info.BitsMask) < maskStride*height {
		return nil, fmt.Errorf("icon mask data truncated: have %d bytes, need %d",
			len(info.BitsMask), maskStride*height)
	}

	if bpp <= 8 {
		paletteLen := (1 << bpp) * 4
		if len(info.ColorTable) < paletteLen {
			return nil, fmt.Errorf("icon palette truncated: have %d bytes, need %d",
				len(info.ColorTable), paletteLen)
		}
	}

	pixels := make([]uint32, width*height)
	for y := 0; y < height; y++ {
		// DIB rows are stored bottom-up.
		srcRow := info.BitsColor[(height-1-y)*colorStride:]
		for x := 0; x < width; x++ {
			var a, r, g, b uint32
			switch bpp {
			case 32:
				off := x * 4
				b = uint32(srcRow[off])
				g = uint32(srcRow[off+1])
				r = uint32(srcRow[off+2])
				a = uint32(srcRow[off+3])
			case 24:
				off := x * 3
				b = uint32(srcRow[off])
				g = uint32(srcRow[off+1])
				r = uint32(srcRow[off+2])
				a = 0xFF
			case 16:
				off := x * 2
				v := uint32(srcRow[off]) | uint32(srcRow[off+1])<<8
				// RGB555 widened to 8 bit per channel.
				r = (v >> 10 & 0x1F) << 3
				g = (v >> 5 & 0x1F) << 3
				b = (v & 0x1F) << 3
				a = 0xFF
			case 8:
				r, g, b = paletteEntry(info.ColorTable, int(srcRow[x]))
				a = 0xFF
			case 4:
				v := srcRow[x/2]
				if x%2 == 0 {
					v >>= 4
				}
				r, g, b = paletteEntry(info.ColorTable, int(v&0x0F))
				a = 0xFF
			case 1:
				v := srcRow[x/8] >> (7 - x%8) & 1
				r, g, b = paletteEntry(info.ColorTable, int(v))
				a = 0xFF
			}
			pixels[y*width+x] = a<<24 | r<<16 | g<<8 | b
		}
	}

	// 32-bpp icons from hosts that predate alpha channels carry an
	// all-zero alpha plane; fall back to the AND mask in that case,
	// and always honor the mask for the lower depths.
	applyMask := hasMask && bpp < 32
	if hasMask && bpp == 32 && alphaPlaneEmpty(pixels) {
		applyMask = true
		for i := range pixels {
			pixels[i] |= 0xFF000000
		}
	}
	if applyMask {
		for y := 0; y < height; y++ {
			maskRow := info.BitsMask[(height-1-y)*maskStride:]
			for x := 0; x < width; x++ {
				if maskRow[x/8]>>(7-x%8)&1 == 1 {
					pixels[y*width+x] &= 0x00FFFFFF
				}
			}
		}
	}
	return pixels, nil
}

func paletteEntry(table []byte, index int) (r, g, b uint32) {
	off := index * 4
	return uint32(table[off+2]), uint32(table[off+1]), uint32(table[off])
}

func alphaPlaneEmpty(pixels []uint32) bool {
	for _, px := range pixels {
		if px&0xFF000000 != 0 {
			return false
		}
	}
	return true
}
