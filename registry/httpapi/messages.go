package httpapi

import (
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/rise-and-shine/popreg/http/server/forward"
	"github.com/rise-and-shine/popreg/meta"
	"github.com/rise-and-shine/popreg/pg"
	"github.com/rise-and-shine/popreg/registry"
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/rise-and-shine/popreg/val"
)

const defaultLanguage = "en"

// RegisterMessages registers the English and Indonesian error messages used in
// error responses.
func RegisterMessages() {
	meta.SetLanguageMap(messages(), defaultLanguage)
}

func messages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			registry.CodeOccupationNotFound:         "Occupation not found",
			registry.CodeNationalityNotFound:        "Nationality not found",
			registry.CodeRelocationTypeNotFound:     "Relocation type not found",
			registry.CodeRegistrationTypeNotFound:   "Registration type not found",
			registry.CodeResidentNotFound:           "Resident not found",
			registry.CodeRegistrationNotFound:       "Registration not found",
			registry.CodeAccountNotFound:            "Account not found",
			registry.CodeOccupationNameTaken:        "An occupation with this name already exists",
			registry.CodeNationalityLabelTaken:      "A nationality with this label already exists",
			registry.CodeRelocationTypeLabelTaken:   "A relocation type with this label already exists",
			registry.CodeRegistrationTypeLabelTaken: "A registration type with this label already exists",
			registry.CodeResidentNIKTaken:           "A resident with this NIK already exists",
			registry.CodeResidentExists:             "This account already has a resident record",
			registry.CodeRegistrationExists:         "This account already has a registration",
			repogen.CodeConflict:                    "The data conflicts with an existing record",
			repogen.CodeSomeIDsNotFound:             "Some of the records were not found, nothing was deleted",
			repogen.CodeReferenceNotFound:           "A referenced record was not found",
			repogen.CodeNoOwner:                     "This record has no owner",
			pg.CodeSerializationFailure:             "The record was changed concurrently, please retry",
			val.CodeValidationFailed:                "Validation failed, see fields for details",
			forward.CodeInvalidContentType:          "Content type must be application/json",
			forward.CodeInvalidJSONBody:             "Request body is not valid JSON",
			forward.CodeInvalidQueryParams:          "Query parameters are invalid",
			forward.CodeInvalidPathParams:           "Path parameters are invalid",
			server.CodeRouterError:                  "The request could not be routed",
			server.CodeInternalError:                "Internal server error",
			CodeUnauthenticated:                     "Authentication required",
		},
		"id": {
			registry.CodeOccupationNotFound:         "Pekerjaan tidak ditemukan",
			registry.CodeNationalityNotFound:        "Kewarganegaraan tidak ditemukan",
			registry.CodeRelocationTypeNotFound:     "Jenis kepindahan tidak ditemukan",
			registry.CodeRegistrationTypeNotFound:   "Jenis pendaftaran tidak ditemukan",
			registry.CodeResidentNotFound:           "Data penduduk tidak ditemukan",
			registry.CodeRegistrationNotFound:       "Data pendaftaran tidak ditemukan",
			registry.CodeAccountNotFound:            "Akun tidak ditemukan",
			registry.CodeOccupationNameTaken:        "Pekerjaan dengan nama ini sudah ada",
			registry.CodeNationalityLabelTaken:      "Kewarganegaraan dengan label ini sudah ada",
			registry.CodeRelocationTypeLabelTaken:   "Jenis kepindahan dengan label ini sudah ada",
			registry.CodeRegistrationTypeLabelTaken: "Jenis pendaftaran dengan label ini sudah ada",
			registry.CodeResidentNIKTaken:           "Penduduk dengan NIK ini sudah terdaftar",
			registry.CodeResidentExists:             "Akun ini sudah memiliki data penduduk",
			registry.CodeRegistrationExists:         "Akun ini sudah memiliki data pendaftaran",
			repogen.CodeConflict:                    "Data bertentangan dengan data yang sudah ada",
			repogen.CodeSomeIDsNotFound:             "Sebagian data tidak ditemukan, tidak ada yang dihapus",
			repogen.CodeReferenceNotFound:           "Data yang dirujuk tidak ditemukan",
			repogen.CodeNoOwner:                     "Data ini tidak memiliki pemilik",
			pg.CodeSerializationFailure:             "Data diubah bersamaan, silakan coba lagi",
			val.CodeValidationFailed:                "Validasi gagal, lihat detail kolom",
			forward.CodeInvalidContentType:          "Tipe konten harus application/json",
			forward.CodeInvalidJSONBody:             "Isi permintaan bukan JSON yang valid",
			forward.CodeInvalidQueryParams:          "Parameter kueri tidak valid",
			forward.CodeInvalidPathParams:           "Parameter path tidak valid",
			server.CodeRouterError:                  "Permintaan tidak dapat diarahkan",
			server.CodeInternalError:                "Terjadi kesalahan pada server",
			CodeUnauthenticated:                     "Autentikasi diperlukan",
		},
	}
}
