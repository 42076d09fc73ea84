package pseudonym

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestPseudonym(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Pseudonym Module Suite")
}

var _ = ginkgo.Describe("MaskPatientID", func() {
	ginkgo.It("should produce a zero-padded label", func() {
		gomega.Expect(MaskPatientID(7)).To(gomega.Equal("ANON_0007"))
		gomega.Expect(MaskPatientID(1234)).To(gomega.Equal("ANON_1234"))
	})

	ginkgo.It("should not truncate ids wider than the padding", func() {
		gomega.Expect(MaskPatientID(123456)).To(gomega.Equal("ANON_123456"))
	})

	ginkgo.It("should be deterministic across repeated calls", func() {
		for i := 0; i < 10; i++ {
			gomega.Expect(MaskPatientID(42)).To(gomega.Equal("ANON_0042"))
		}
	})
})

var _ = ginkgo.Describe("MaskContact", func() {
	ginkgo.It("should keep only the last 4 characters", func() {
		gomega.Expect(MaskContact("555-0199")).To(gomega.Equal("XXX-XXX-0199"))
		gomega.Expect(MaskContact("+62-812-555-7788")).To(gomega.Equal("XXX-XXX-7788"))
	})

	ginkgo.It("should mask short contacts entirely", func() {
		gomega.Expect(MaskContact("123")).To(gomega.Equal("XXX-XXX-XXXX"))
		gomega.Expect(MaskContact("")).To(gomega.Equal("XXX-XXX-XXXX"))
	})

	ginkgo.It("should keep exactly 4 characters for a 4-character contact", func() {
		gomega.Expect(MaskContact("9876")).To(gomega.Equal("XXX-XXX-9876"))
	})

	ginkgo.It("should count characters, not bytes, for multibyte contacts", func() {
		gomega.Expect(MaskContact("αβγδε")).To(gomega.Equal("XXX-XXX-βγδε"))
		gomega.Expect(MaskContact("電話番号1234")).To(gomega.Equal("XXX-XXX-1234"))
	})

	ginkgo.It("should mask short multibyte contacts entirely", func() {
		gomega.Expect(MaskContact("ab©")).To(gomega.Equal("XXX-XXX-XXXX"))
		gomega.Expect(MaskContact("漢字")).To(gomega.Equal("XXX-XXX-XXXX"))
	})
})

var _ = ginkgo.Describe("Cipher", func() {
	var cipher *Cipher

	ginkgo.BeforeEach(func() {
		key := bytes.Repeat([]byte{0x42}, 32)
		var err error
		cipher, err = NewCipher(key)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.Describe("Encrypt and Decrypt", func() {
		ginkgo.It("should round-trip arbitrary plaintext", func() {
			for _, plaintext := range []string{"Jane Doe", "555-0199", "", "äöü 漢字", "a"} {
				ct, err := cipher.Encrypt(plaintext)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				pt, err := cipher.Decrypt(ct)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(pt).To(gomega.Equal(plaintext))
			}
		})

		ginkgo.It("should produce different ciphertext per call", func() {
			first, err := cipher.Encrypt("Jane Doe")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			second, err := cipher.Encrypt("Jane Doe")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// fresh nonce per call; decrypted meaning is unchanged
			gomega.Expect(first).ToNot(gomega.Equal(second))
		})

		ginkgo.It("should reject foreign ciphertext", func() {
			other, err := NewCipher(bytes.Repeat([]byte{0x43}, 32))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			ct, err := other.Encrypt("secret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = cipher.Decrypt(ct)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("DecryptField", func() {
		ginkgo.It("should return the plaintext for valid ciphertext", func() {
			ct, err := cipher.Encrypt("Jane Doe")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cipher.DecryptField(ct)).To(gomega.Equal("Jane Doe"))
		})

		ginkgo.It("should return a placeholder for malformed input instead of failing", func() {
			for _, garbage := range []string{"not-base64!!!", "YWJj", "%%%%"} {
				value := cipher.DecryptField(garbage)
				gomega.Expect(value).To(gomega.HavePrefix("[decryption error:"))
			}
		})

		ginkgo.It("should pass empty input through", func() {
			gomega.Expect(cipher.DecryptField("")).To(gomega.Equal(""))
		})
	})
})

var _ = ginkgo.Describe("LoadOrCreateKey", func() {
	ginkgo.It("should generate a key on first use and load the same key afterwards", func() {
		path := filepath.Join(ginkgo.GinkgoT().TempDir(), "records.key")

		first, err := LoadOrCreateKey(path)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(first).To(gomega.HaveLen(32))

		second, err := LoadOrCreateKey(path)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(second).To(gomega.Equal(first))
	})

	ginkgo.It("should keep historical ciphertext decryptable across restarts", func() {
		path := filepath.Join(ginkgo.GinkgoT().TempDir(), "records.key")

		before, err := NewCipherFromFile(path)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		ct, err := before.Encrypt("Jane Doe")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		after, err := NewCipherFromFile(path)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		pt, err := after.Decrypt(ct)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(pt).To(gomega.Equal("Jane Doe"))
	})

	ginkgo.It("should reject a key file with the wrong length", func() {
		path := filepath.Join(ginkgo.GinkgoT().TempDir(), "records.key")
		gomega.Expect(os.WriteFile(path, []byte("short"), 0o600)).To(gomega.Succeed())

		_, err := LoadOrCreateKey(path)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
