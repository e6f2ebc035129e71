package model

import "github.com/google/uuid"

// Members là ordered set: mỗi video id xuất hiện tối đa một lần.
// Add/Remove không sửa slice gốc.
type Members []uuid.UUID

func (m Members) Contains(id uuid.UUID) bool {
	for _, v := range m {
		if v == id {
			return true
		}
	}
	return false
}

// Add append id vào cuối. changed=false nếu id đã có.
func (m Members) Add(id uuid.UUID) (Members, bool) {
	if m.Contains(id) {
		return m, false
	}
	next := make(Members, len(m), len(m)+1)
	copy(next, m)
	return append(next, id), true
}

// Remove bỏ id, giữ thứ tự các phần tử còn lại. changed=false nếu id không có.
func (m Members) Remove(id uuid.UUID) (Members, bool) {
	if !m.Contains(id) {
		return m, false
	}
	next := make(Members, 0, len(m)-1)
	for _, v := range m {
		if v != id {
			next = append(next, v)
		}
	}
	return next, true
}

// Diff trả về id có trong next mà không có trong m (theo thứ tự next),
// và id có trong m mà không còn trong next.
func (m Members) Diff(next Members) (added, removed []uuid.UUID) {
	for _, id := range next {
		if !m.Contains(id) {
			added = append(added, id)
		}
	}
	for _, id := range m {
		if !next.Contains(id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}
