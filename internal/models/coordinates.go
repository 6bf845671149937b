package models

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinates maps to PostGIS geography(Point,4326)
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// InBounds reports whether the point is a valid WGS84 coordinate pair.
func (c Coordinates) InBounds() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Scan allows Coordinates to be read from Postgres
func (c *Coordinates) Scan(src interface{}) error {
	var dataStr string

	// Handle different input types
	switch v := src.(type) {
	case []byte:
		dataStr = string(v)
	case string:
		dataStr = v
	case nil:
		// Handle nil coordinates gracefully - set to zero
		c.Latitude = 0
		c.Longitude = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Coordinates", src)
	}

	// First try WKT formats (for backward compatibility)
	var lon, lat float64
	var err error

	// Try different WKT formats
	_, err = fmt.Sscanf(dataStr, "POINT(%f %f)", &lon, &lat)
	if err == nil {
		c.Latitude = lat
		c.Longitude = lon
		return nil
	}

	_, err = fmt.Sscanf(dataStr, "SRID=4326;POINT(%f %f)", &lon, &lat)
	if err == nil {
		c.Latitude = lat
		c.Longitude = lon
		return nil
	}

	// Check if it's a hex-encoded EWKB string
	if len(dataStr) >= 32 && isHexString(dataStr) {
		// Decode hex string to bytes
		ewkbBytes, err := hex.DecodeString(dataStr)
		if err != nil {
			return fmt.Errorf("failed to decode EWKB hex: %v", err)
		}

		// Parse EWKB binary format
		return c.parseEWKB(ewkbBytes)
	}

	// If all parsing fails, try to parse as plain coordinates
	// This handles cases where coordinates might be stored as "lat,lng" or similar
	if parts := strings.Split(dataStr, ","); len(parts) == 2 {
		if lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err == nil {
			if lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
				c.Latitude = lat
				c.Longitude = lng
				return nil
			}
		}
	}

	return fmt.Errorf("failed to parse coordinates from: %q", dataStr)
}

// isHexString checks if a string contains only hexadecimal characters
func isHexString(s string) bool {
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// parseEWKB parses Extended Well-Known Binary format for PostGIS Point
func (c *Coordinates) parseEWKB(data []byte) error {
	// 1 endianness byte + 4 type + 4 SRID + two float64 coordinates
	if len(data) < 25 {
		return fmt.Errorf("EWKB data too short: %d bytes", len(data))
	}

	// EWKB format for Point with SRID:
	// Byte 0: Endianness (1 = little endian)
	// Bytes 1-4: Type with SRID flag (0x20000001 = Point with SRID)
	// Bytes 5-8: SRID (4326)
	// Bytes 9-16: X coordinate (longitude)
	// Bytes 17-24: Y coordinate (latitude)

	endian := data[0]
	var order binary.ByteOrder
	if endian == 1 {
		order = binary.LittleEndian
	} else {
		order = binary.BigEndian
	}

	// Read type (should be 0x20000001 for Point with SRID)
	typ := order.Uint32(data[1:5])
	if typ&0x20000000 == 0 {
		return fmt.Errorf("EWKB type does not have SRID flag: %x", typ)
	}

	// Read SRID
	srid := order.Uint32(data[5:9])
	if srid != 4326 {
		return fmt.Errorf("unexpected SRID: %d (expected 4326)", srid)
	}

	// Read coordinates
	c.Longitude = math.Float64frombits(order.Uint64(data[9:17]))
	c.Latitude = math.Float64frombits(order.Uint64(data[17:25]))

	return nil
}

// Value allows Coordinates to be written into Postgres
func (c Coordinates) Value() (driver.Value, error) {
	return fmt.Sprintf("SRID=4326;POINT(%f %f)", c.Longitude, c.Latitude), nil
}
