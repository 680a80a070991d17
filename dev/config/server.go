package config

const SERVER_YML = `
rolodex:
  listener:
    port: 3000
  avatars:
    maxUploadSizeMB: 5

sqlite:
  passPhrase: passphrase

google:
  storage:
    bucket: "rolodex"
    prefix: "rolodex-dev"
    enableAvatarStorage: false
  applicationCredentials:
`
