// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package evdev

// Event types, from linux/input-event-codes.h.
const (
	EV_SYN uint16 = 0x00
	EV_KEY uint16 = 0x01
	EV_REL uint16 = 0x02
)

// SYN_REPORT is the frame-boundary code under EV_SYN.
const SYN_REPORT uint16 = 0x00

// REL_* axis codes, from linux/input-event-codes.h.
const (
	REL_X     uint16 = 0x00
	REL_Y     uint16 = 0x01
	REL_WHEEL uint16 = 0x08
)

// BTN_* mouse button codes, from linux/input-event-codes.h.
const (
	BTN_LEFT   uint16 = 0x110
	BTN_RIGHT  uint16 = 0x111
	BTN_MIDDLE uint16 = 0x112
	BTN_SIDE   uint16 = 0x113
	BTN_EXTRA  uint16 = 0x114
)

// KEY_* keyboard scancodes, from linux/input-event-codes.h. Only the subset
// this bridge needs to recognize (letters, digits, symbols, modifiers, and
// the few function keys used by the macro shortcuts) is enumerated.
const (
	KEY_ESC        uint16 = 1
	KEY_1          uint16 = 2
	KEY_2          uint16 = 3
	KEY_3          uint16 = 4
	KEY_4          uint16 = 5
	KEY_5          uint16 = 6
	KEY_6          uint16 = 7
	KEY_7          uint16 = 8
	KEY_8          uint16 = 9
	KEY_9          uint16 = 10
	KEY_0          uint16 = 11
	KEY_MINUS      uint16 = 12
	KEY_EQUAL      uint16 = 13
	KEY_BACKSPACE  uint16 = 14
	KEY_TAB        uint16 = 15
	KEY_Q          uint16 = 16
	KEY_W          uint16 = 17
	KEY_E          uint16 = 18
	KEY_R          uint16 = 19
	KEY_T          uint16 = 20
	KEY_Y          uint16 = 21
	KEY_U          uint16 = 22
	KEY_I          uint16 = 23
	KEY_O          uint16 = 24
	KEY_P          uint16 = 25
	KEY_LEFTBRACE  uint16 = 26
	KEY_RIGHTBRACE uint16 = 27
	KEY_ENTER      uint16 = 28
	KEY_LEFTCTRL   uint16 = 29
	KEY_A          uint16 = 30
	KEY_S          uint16 = 31
	KEY_D          uint16 = 32
	KEY_F          uint16 = 33
	KEY_G          uint16 = 34
	KEY_H          uint16 = 35
	KEY_J          uint16 = 36
	KEY_K          uint16 = 37
	KEY_L          uint16 = 38
	KEY_SEMICOLON  uint16 = 39
	KEY_APOSTROPHE uint16 = 40
	KEY_GRAVE      uint16 = 41
	KEY_LEFTSHIFT  uint16 = 42
	KEY_BACKSLASH  uint16 = 43
	KEY_Z          uint16 = 44
	KEY_X          uint16 = 45
	KEY_C          uint16 = 46
	KEY_V          uint16 = 47
	KEY_B          uint16 = 48
	KEY_N          uint16 = 49
	KEY_M          uint16 = 50
	KEY_COMMA      uint16 = 51
	KEY_DOT        uint16 = 52
	KEY_SLASH      uint16 = 53
	KEY_RIGHTSHIFT uint16 = 54
	KEY_LEFTALT    uint16 = 56
	KEY_SPACE      uint16 = 57
	KEY_CAPSLOCK   uint16 = 58
	KEY_F1         uint16 = 59
	KEY_F2         uint16 = 60
	KEY_F3         uint16 = 61
	KEY_F4         uint16 = 62
	KEY_F5         uint16 = 63
	KEY_F6         uint16 = 64
	KEY_F7         uint16 = 65
	KEY_F8         uint16 = 66
	KEY_F9         uint16 = 67
	KEY_F10        uint16 = 68
	KEY_RO         uint16 = 89
	KEY_RIGHTCTRL  uint16 = 97
	KEY_YEN        uint16 = 124
	KEY_RIGHTALT   uint16 = 100
	KEY_LEFTMETA   uint16 = 125
	KEY_RIGHTMETA  uint16 = 126
)
