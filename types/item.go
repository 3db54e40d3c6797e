package types

import "fmt"

// ItemCustodySize is the encoded size of an ItemCustody record.
const ItemCustodySize = DiscriminatorSize + 1 + AddressSize + ItemReferenceSize + AddressSize

// ItemCustody records who currently holds the item sold by an auction. While
// the auction runs the holder is the auction account itself.
type ItemCustody struct {
	Auction   Address
	Reference ItemReference
	Holder    Address
}

// Marshal encodes the record in its fixed binary layout.
func (ic *ItemCustody) Marshal() []byte {
	enc := newEncoder(ItemCustodySize)
	enc.raw(ItemCustodyDiscriminator[:])
	enc.u8(RecordVersion)
	enc.raw(ic.Auction[:])
	enc.raw(ic.Reference[:])
	enc.raw(ic.Holder[:])
	return enc.bytes()
}

// UnmarshalItemCustody decodes an ItemCustody record.
func UnmarshalItemCustody(bz []byte) (*ItemCustody, error) {
	if len(bz) != ItemCustodySize {
		return nil, fmt.Errorf("%w: item record is %d bytes, want %d", ErrInvalidAccount, len(bz), ItemCustodySize)
	}
	dec := newDecoder(bz)
	if err := readHeader(dec, ItemCustodyDiscriminator, "item custody"); err != nil {
		return nil, err
	}
	ic := &ItemCustody{Auction: dec.address()}
	copy(ic.Reference[:], dec.next(ItemReferenceSize))
	ic.Holder = dec.address()
	if err := dec.finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}
	return ic, nil
}
